package ast

type Visitor interface {
	VisitProgram(program Program)
	VisitMove(move Move)
	VisitAdd(add Add)
	VisitInput(input Input)
	VisitOutput(output Output)
	VisitLoop(loop Loop)
}

// Stats collects simple metrics about a program tree.
type Stats struct {
	Statements int
	Loops      int
	MaxDepth   int
	depth      int
}

func CollectStats(program Program) Stats {
	stats := &Stats{}
	program.Accept(stats)
	return *stats
}

func (s *Stats) VisitProgram(program Program) {
	for _, stmt := range program {
		stmt.Accept(s)
	}
}

func (s *Stats) VisitMove(move Move) {
	s.Statements++
}

func (s *Stats) VisitAdd(add Add) {
	s.Statements++
}

func (s *Stats) VisitInput(input Input) {
	s.Statements++
}

func (s *Stats) VisitOutput(output Output) {
	s.Statements++
}

func (s *Stats) VisitLoop(loop Loop) {
	s.Statements++
	s.Loops++
	s.depth++
	if s.depth > s.MaxDepth {
		s.MaxDepth = s.depth
	}
	loop.Body.Accept(s)
	s.depth--
}
