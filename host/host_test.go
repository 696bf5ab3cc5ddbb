package host

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const program = `# count down once, then load a word
main:	addiu $t0, $zero, 1
loop:	addiu $t0, $t0, -1
	bne $t0, $zero, loop
	lw $t1, val($gp)
	syscall
.data
val:	.word 42
`

var _ = Describe("Host", func() {
	var (
		h   *Host
		dir string
		src string
	)

	run := func(commands ...string) string {
		var out bytes.Buffer
		h.RunCommands(strings.NewReader(strings.Join(commands, "\n")+"\n"), &out, false)
		return out.String()
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "mipsasm-host")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		src = filepath.Join(dir, "prog.s")
		Expect(os.WriteFile(src, []byte(program), 0600)).To(Succeed())

		h = New()
	})

	It("should report when nothing is loaded", func() {
		Expect(run("words")).To(ContainSubstring("No words loaded."))
		Expect(run("labels")).To(ContainSubstring("No labels loaded."))
	})

	It("should stop processing commands on quit", func() {
		Expect(run("quit", "words")).NotTo(ContainSubstring("No words loaded."))
	})

	It("should list commands", func() {
		out := run("help")
		Expect(out).To(ContainSubstring("assemble"))
		Expect(out).To(ContainSubstring("disassemble"))
		Expect(out).To(ContainSubstring("words"))
	})

	Context("after assembling a file", func() {
		BeforeEach(func() {
			out := run("assemble " + src)
			Expect(out).To(ContainSubstring("Assembled 'prog.s' to 'prog.hex'."))
		})

		It("should write the hex file", func() {
			b, err := os.ReadFile(filepath.Join(dir, "prog.hex"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal(
				"24080001\n2508ffff\n1500fffe\n8f890000\n0000000c\n0000002a\n"))
		})

		It("should write the source map", func() {
			_, err := os.Stat(filepath.Join(dir, "prog.map"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should dump words", func() {
			out := run("words 0 3")
			Expect(out).To(Equal("0000  24080001\n0001  2508ffff\n0002  1500fffe\n"))
		})

		It("should continue a dump on an empty line", func() {
			out := run("words 0 2", "")
			Expect(out).To(Equal(
				"0000  24080001\n0001  2508ffff\n0002  1500fffe\n0003  8f890000\n"))
		})

		It("should disassemble code words", func() {
			out := run("disassemble 1 2")
			Expect(out).To(ContainSubstring("loop:"))
			Expect(out).To(ContainSubstring("addiu $t0, $t0, -1"))
			Expect(out).To(ContainSubstring("bne $t0, $zero, 1"))
			Expect(out).NotTo(ContainSubstring("0003"))
		})

		It("should disassemble data words as directives", func() {
			out := run("disassemble val 1")
			Expect(out).To(ContainSubstring("val:"))
			Expect(out).To(ContainSubstring(".word 0x0000002a"))
		})

		It("should list labels", func() {
			out := run("labels")
			Expect(out).To(ContainSubstring("main"))
			Expect(out).To(ContainSubstring("loop"))
			Expect(out).To(ContainSubstring("val"))
		})

		It("should resolve a unique label prefix", func() {
			out := run("labels lo")
			Expect(out).To(HavePrefix("loop"))
			Expect(out).To(ContainSubstring("text"))
		})

		It("should report an unknown label", func() {
			Expect(run("labels zz")).To(ContainSubstring("label 'zz' not found"))
		})

		It("should map an address to its source line", func() {
			out := run("list 2")
			Expect(out).To(ContainSubstring("prog.s:4:"))
			Expect(out).To(ContainSubstring("bne $t0, $zero, loop"))
		})

		It("should map a data label to its source line", func() {
			Expect(run("list val")).To(ContainSubstring("prog.s:8:"))
		})

		It("should save and load hex files", func() {
			out := run("save " + filepath.Join(dir, "copy.hex"))
			Expect(out).To(ContainSubstring("Saved 6 words to 'copy.hex'."))

			h = New()
			out = run("load " + filepath.Join(dir, "copy.hex"))
			Expect(out).To(ContainSubstring("Loaded 6 words from 'copy.hex'."))
			Expect(run("words 5 1")).To(Equal("0005  0000002a\n"))
		})

		It("should load the source map along with the hex file", func() {
			h = New()
			run("load " + filepath.Join(dir, "prog"))
			out := run("disassemble 4 2")
			Expect(out).To(ContainSubstring("syscall"))
			Expect(out).To(ContainSubstring(".word 0x0000002a"))
			Expect(run("labels ma")).To(HavePrefix("main"))
		})

		It("should use settings for default counts", func() {
			Expect(run("set wordlines 2")).To(ContainSubstring("Setting updated."))
			Expect(run("words 0")).To(Equal("0000  24080001\n0001  2508ffff\n"))
		})
	})

	It("should report assembly errors", func() {
		bad := filepath.Join(dir, "bad.s")
		Expect(os.WriteFile(bad, []byte("main: j nowhere\n"), 0600)).To(Succeed())

		out := run("assemble " + bad)
		Expect(out).To(ContainSubstring("Syntax error in"))
		Expect(out).To(ContainSubstring("unresolved label 'nowhere'"))
		Expect(out).To(ContainSubstring("Failed to assemble: bad.s"))

		_, err := os.Stat(filepath.Join(dir, "bad.hex"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should produce verbose output when requested", func() {
		out := run("assemble " + src + " true")
		Expect(out).To(ContainSubstring("-- Encoding instructions --"))
	})

	It("should reject invalid settings", func() {
		Expect(run("set verbose maybe")).To(ContainSubstring("invalid bool value 'maybe'"))
		Expect(run("set bogus 1")).To(ContainSubstring("Setting 'bogus' not found"))
	})
})

var _ = Describe("Settings", func() {
	var s *settings

	BeforeEach(func() {
		s = newSettings()
	})

	It("should accept unique key prefixes", func() {
		Expect(s.Set("word", 3)).To(Succeed())
		Expect(s.WordLines).To(Equal(3))
		Expect(s.Set("verb", true)).To(Succeed())
		Expect(s.Verbose).To(BeTrue())
	})

	It("should report field kinds", func() {
		Expect(s.Kind("verbose").String()).To(Equal("bool"))
		Expect(s.Kind("disasmlines").String()).To(Equal("int"))
		Expect(s.Kind("missing").String()).To(Equal("invalid"))
	})

	It("should reject ambiguous prefixes", func() {
		Expect(s.Set("next", 1)).NotTo(Succeed())
	})

	It("should reject mismatched types", func() {
		Expect(s.Set("verbose", 1)).NotTo(Succeed())
		Expect(s.Set("wordlines", true)).NotTo(Succeed())
		Expect(s.Set("wordlines", -1)).NotTo(Succeed())
	})

	It("should display every setting", func() {
		var b bytes.Buffer
		s.Display(&b)
		Expect(b.String()).To(ContainSubstring("WordLines"))
		Expect(b.String()).To(ContainSubstring("(verbose assembler output)"))
	})
})

var _ = Describe("indentWrap", func() {
	It("should wrap and indent long text", func() {
		text := strings.Repeat("word ", 40)
		for _, line := range strings.Split(indentWrap(3, text), "\n") {
			Expect(line).To(HavePrefix("   w"))
			Expect(len(line)).To(BeNumerically("<=", 72))
		}
	})
})
