package interp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iley/bfc/internal/ast"
	"github.com/iley/bfc/internal/parser"
)

var _ = Describe("Machine", func() {
	var (
		mockCtrl *gomock.Controller
		input    *MockByteReader
		output   *MockByteWriter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		input = NewMockByteReader(mockCtrl)
		output = NewMockByteWriter(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	run := func(m *Machine, src string) error {
		return m.Run(context.Background(), parser.Parse([]byte(src)))
	}

	It("should output the current cell", func() {
		output.EXPECT().WriteByte(byte(3)).Return(nil)

		m := New(input, output, Options{})
		Expect(run(m, "+++.")).To(Succeed())
		Expect(m.Cell(0)).To(Equal(byte(3)))
	})

	It("should move a value between cells", func() {
		m := New(input, output, Options{})
		Expect(run(m, "+++[>+<-]")).To(Succeed())
		Expect(m.Cell(0)).To(Equal(byte(0)))
		Expect(m.Cell(1)).To(Equal(byte(3)))
		Expect(m.Cursor()).To(Equal(0))
	})

	It("should wrap cell values modulo 256", func() {
		output.EXPECT().WriteByte(byte(255)).Return(nil)
		output.EXPECT().WriteByte(byte(0)).Return(nil)

		m := New(input, output, Options{})
		Expect(run(m, "-.+.")).To(Succeed())
	})

	It("should store input bytes in the current cell", func() {
		gomock.InOrder(
			input.EXPECT().ReadByte().Return(byte('h'), nil),
			input.EXPECT().ReadByte().Return(byte('i'), nil),
			input.EXPECT().ReadByte().Return(byte(0), io.EOF),
		)

		m := New(input, output, Options{EOF: EOFZero})
		Expect(run(m, ",>,>,")).To(Succeed())
		Expect(m.Cell(0)).To(Equal(byte('h')))
		Expect(m.Cell(1)).To(Equal(byte('i')))
		Expect(m.Cell(2)).To(Equal(byte(0)))
	})

	DescribeTable("EOF policies",
		func(policy EOFPolicy, expected byte) {
			input.EXPECT().ReadByte().Return(byte(0), io.EOF)

			m := New(input, output, Options{EOF: policy})
			Expect(run(m, "+++++,")).To(Succeed())
			Expect(m.Cell(0)).To(Equal(expected))
		},
		Entry("max stores 255", EOFMax, byte(255)),
		Entry("zero stores 0", EOFZero, byte(0)),
		Entry("keep leaves the cell alone", EOFKeep, byte(5)),
	)

	It("should report input errors", func() {
		readErr := errors.New("broken pipe")
		input.EXPECT().ReadByte().Return(byte(0), readErr)

		m := New(input, output, Options{})
		err := run(m, ",")
		Expect(err).To(MatchError(readErr))
	})

	It("should report output errors and stop", func() {
		writeErr := errors.New("disk full")
		output.EXPECT().WriteByte(byte(1)).Return(writeErr)

		m := New(input, output, Options{})
		err := run(m, "+.+.")
		Expect(err).To(MatchError(writeErr))
		Expect(m.Cell(0)).To(Equal(byte(1)))
	})

	It("should reject access left of the tape", func() {
		m := New(input, output, Options{TapeSize: 4})
		err := run(m, "<+")
		Expect(err).To(MatchError(ErrCursorOutOfRange))

		var runtimeErr *RuntimeError
		Expect(errors.As(err, &runtimeErr)).To(BeTrue())
		Expect(runtimeErr.Cursor).To(Equal(-1))
	})

	It("should reject access right of the tape", func() {
		m := New(input, output, Options{TapeSize: 4})
		err := run(m, ">>>>.")
		Expect(err).To(MatchError(ErrCursorOutOfRange))
		Expect(err.Error()).To(ContainSubstring("cell 4"))
	})

	It("should allow the cursor to pass outside the tape without touching cells", func() {
		m := New(input, output, Options{TapeSize: 2})
		Expect(run(m, "<<>>+")).To(Succeed())
		Expect(m.Cell(0)).To(Equal(byte(1)))
	})

	It("should stop a runaway loop when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := New(input, output, Options{})
		err := m.Run(ctx, parser.Parse([]byte("+[]")))
		Expect(err).To(MatchError(context.Canceled))
		Expect(m.Cell(0)).To(Equal(byte(1)))
	})

	It("should keep state across runs", func() {
		m := New(input, output, Options{})
		Expect(run(m, "++>")).To(Succeed())
		Expect(run(m, "+<+")).To(Succeed())
		Expect(m.Cell(0)).To(Equal(byte(3)))
		Expect(m.Cell(1)).To(Equal(byte(1)))
	})

	It("should default the tape size", func() {
		m := New(input, output, Options{})
		Expect(m.Cell(DefaultTapeSize - 1)).To(Equal(byte(0)))
	})
})

var _ = Describe("Programs", func() {
	execute := func(src, stdin string) string {
		var out bytes.Buffer
		m := New(strings.NewReader(stdin), &out, Options{})
		Expect(m.Run(context.Background(), parser.Parse([]byte(src)))).To(Succeed())
		return out.String()
	}

	It("should print hello world", func() {
		src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
		Expect(execute(src, "")).To(Equal("Hello World!\n"))
	})

	It("should echo input until EOF", func() {
		Expect(execute(",+[-.,+]", "echo me")).To(Equal("echo me"))
	})

	It("should ignore comments", func() {
		Expect(execute("this adds three +++ and prints it .", "")).To(Equal("\x03"))
	})

	It("should flush buffered output before reading", func() {
		var out bytes.Buffer
		w := bufio.NewWriter(&out)
		m := New(strings.NewReader("x"), w, Options{})
		prog := ast.Program{ast.Add{Delta: 'A'}, ast.Output{}, ast.Input{}}
		Expect(m.Run(context.Background(), prog)).To(Succeed())
		Expect(out.String()).To(Equal("A"))
	})
})

var _ = Describe("EOFPolicyFromName", func() {
	It("should recognise every policy", func() {
		for name, expected := range map[string]EOFPolicy{"max": EOFMax, "zero": EOFZero, "keep": EOFKeep} {
			policy, err := EOFPolicyFromName(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(policy).To(Equal(expected))
		}
	})

	It("should reject unknown names", func() {
		_, err := EOFPolicyFromName("ignore")
		Expect(err).To(HaveOccurred())
	})
})
