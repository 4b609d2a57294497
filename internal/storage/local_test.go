package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("SanitizeFileName", func() {
	It("replaces path separators", func() {
		Expect(SanitizeFileName("../../etc/passwd")).NotTo(ContainSubstring("/"))
		Expect(SanitizeFileName(`..\..\boot.ini`)).NotTo(ContainSubstring(`\`))
	})

	It("strips leading dots so names cannot hide or traverse", func() {
		Expect(SanitizeFileName("...sneaky")).To(Equal("sneaky"))
	})

	It("falls back to a placeholder for empty names", func() {
		Expect(SanitizeFileName("   ")).To(Equal("unnamed"))
	})

	It("keeps ordinary names intact", func() {
		Expect(SanitizeFileName("exhibit-a.pdf")).To(Equal("exhibit-a.pdf"))
	})
})

var _ = Describe("BuildKey", func() {
	It("embeds case, user and sanitized file name", func() {
		key := BuildKey("case-1", "user-1", "brief.pdf")
		Expect(key).To(ContainSubstring("_case-1_user-1_brief.pdf"))
	})
})

var _ = Describe("LocalStore", func() {
	var (
		dir   string
		store *LocalStore
		ctx   context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		dir, err = os.MkdirTemp("", "uploads")
		Expect(err).NotTo(HaveOccurred())
		store, err = NewLocalStore(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("round-trips bytes through Save and Open", func() {
		ref, err := store.Save(ctx, "1_case_user_brief.pdf", strings.NewReader("file contents"))
		Expect(err).NotTo(HaveOccurred())

		rc, err := store.Open(ctx, ref)
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()

		data, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("file contents"))
	})

	It("refuses to overwrite an existing key", func() {
		_, err := store.Save(ctx, "key", strings.NewReader("first"))
		Expect(err).NotTo(HaveOccurred())

		_, err = store.Save(ctx, "key", strings.NewReader("second"))
		Expect(err).To(HaveOccurred())
	})

	It("reports a missing ref as not found", func() {
		_, err := store.Open(ctx, "never-saved")
		Expect(err).To(HaveOccurred())
	})

	It("deletes stored bytes and tolerates repeat deletes", func() {
		ref, err := store.Save(ctx, "key", strings.NewReader("x"))
		Expect(err).NotTo(HaveOccurred())

		Expect(store.Delete(ctx, ref)).To(Succeed())
		Expect(store.Delete(ctx, ref)).To(Succeed())

		_, err = store.Open(ctx, ref)
		Expect(err).To(HaveOccurred())
	})
})
