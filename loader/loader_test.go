package loader_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/loader"
)

var _ = Describe("Text Loader", func() {
	Describe("Parse", func() {
		It("should read whitespace and newline separated words", func() {
			prog, err := loader.Parse(strings.NewReader("1 2\n-3\t4\n\n"))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]int32{1, 2, -3, 4}))
			Expect(prog.Stopped).To(BeFalse())
		})

		It("should stop at the first unparsable token", func() {
			prog, err := loader.Parse(strings.NewReader("10 20 halt 30"))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]int32{10, 20}))
			Expect(prog.Stopped).To(BeTrue())
			Expect(prog.StopToken).To(Equal("halt"))
		})

		It("should accept unsigned 32-bit values", func() {
			prog, err := loader.Parse(strings.NewReader("4160749568 4294967295"))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]int32{-134217728, -1}))
		})

		It("should stop at a value wider than a word", func() {
			prog, err := loader.Parse(strings.NewReader("7 4294967296"))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal([]int32{7}))
			Expect(prog.Stopped).To(BeTrue())
		})

		It("should return an empty program for empty input", func() {
			prog, err := loader.Parse(strings.NewReader(""))

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(BeEmpty())
		})
	})

	Describe("Write", func() {
		It("should emit one word per line", func() {
			var buf bytes.Buffer

			Expect(loader.Write(&buf, []int32{5, -1, 0})).To(Succeed())

			Expect(buf.String()).To(Equal("5\n-1\n0\n"))
		})
	})

	Describe("Load and Save", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "misc-loader-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should read back what it saved", func() {
			path := filepath.Join(tempDir, "prog.txt")
			words := []int32{0x1040002A, -134217728, 0}

			Expect(loader.Save(path, words)).To(Succeed())
			prog, err := loader.Load(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Words).To(Equal(words))
		})

		It("should wrap the error for a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing.txt"))

			Expect(err).To(HaveOccurred())
			Expect(err).To(MatchError(os.ErrNotExist))
			Expect(err.Error()).To(ContainSubstring("failed to open program file"))
		})
	})
})
