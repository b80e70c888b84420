// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package action

import (
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Operand is an instruction operand reference.
type Operand int

//go:generate go tool stringer -linecomment -type=Operand
const (
	OPERAND_RD   = Operand(0) // rd
	OPERAND_RS   = Operand(1) // rs
	OPERAND_IMM  = Operand(2) // imm
	OPERAND_ADDR = Operand(3) // addr
)

// Conv is a width conversion.
type Conv int

//go:generate go tool stringer -linecomment -type=Conv
const (
	CONV_UWORD = Conv(0) // uword
	CONV_SWORD = Conv(1) // sword
	CONV_UBYTE = Conv(2) // ubyte
	CONV_SBYTE = Conv(3) // sbyte
)

var operandMap = map[string]Operand{}
var convMap = map[string]Conv{}

func init() {
	for op := OPERAND_RD; op <= OPERAND_ADDR; op++ {
		operandMap[op.String()] = op
	}
	for cv := CONV_UWORD; cv <= CONV_SBYTE; cv++ {
		convMap[cv.String()] = cv
	}
}

// operandWidth is the bit width of each operand value.
var operandWidth = map[Operand]int{
	OPERAND_RD:   16,
	OPERAND_RS:   16,
	OPERAND_IMM:  8,
	OPERAND_ADDR: 16,
}

var convWidth = map[Conv]int{
	CONV_UWORD: 16,
	CONV_SWORD: 16,
	CONV_UBYTE: 8,
	CONV_SBYTE: 8,
}

var constNames = map[string]bool{
	"True":  true,
	"False": true,
	"None":  true,
}

// Expr is a compiled action.
type Expr struct {
	text    string
	prog    *starlark.Program // nil for the empty action
	width   int
	effects bool
	uses    map[Operand]bool
}

// result is the global holding the value of the action.
const result = "rc"

// isPredeclared reports the names an action program may reference.
func isPredeclared(name string) bool {
	_, ok := operandMap[name]
	if !ok {
		_, ok = builtins[name]
	}
	return ok
}

// Parse compiles the text of an action. An empty (or all blank) text is
// the action with no effects.
func Parse(text string) (expr *Expr, err error) {
	expr = &Expr{text: text, uses: map[Operand]bool{}}

	if len(strings.TrimSpace(text)) == 0 {
		return
	}

	opts := syntax.FileOptions{}
	file, err := opts.Parse("action", result+" = (\n"+text+"\n)\n", 0)
	if err != nil {
		err = &ErrAction{Text: text, Err: err}
		expr = nil
		return
	}

	var root syntax.Expr
	if len(file.Stmts) == 1 {
		if assign, ok := file.Stmts[0].(*syntax.AssignStmt); ok {
			root = assign.RHS
		}
	}
	if root == nil {
		err = &ErrAction{Text: text, Err: ErrUnsupported}
		expr = nil
		return
	}

	c := &compiler{expr: expr}
	expr.width, err = c.check(root, true)
	if err == nil {
		expr.prog, err = starlark.FileProgram(file, isPredeclared)
	}
	if err != nil {
		err = &ErrAction{Text: text, Pos: c.pos, Err: err}
		expr = nil
		return
	}

	return
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Expr {
	expr, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return expr
}

// String returns the source text of the action.
func (expr *Expr) String() string {
	return expr.text
}

// Empty is true for an action without an expression.
func (expr *Expr) Empty() bool {
	return expr.prog == nil
}

// HasEffects is true if the action can record an effect.
func (expr *Expr) HasEffects() bool {
	return expr.effects
}

// Uses reports whether the action references an operand.
func (expr *Expr) Uses(op Operand) bool {
	return expr.uses[op]
}

// Width is the bit width of the action's value; 0 for an untyped value.
func (expr *Expr) Width() int {
	return expr.width
}

// compiler checks a parsed action before it is handed to Starlark.
//
// Value widths are static: an 8-bit value only comes from imm, ubyte,
// sbyte or getmem(a, 1), and arithmetic takes the wider operand. The
// checker rewrites the calls whose meaning depends on the width, so the
// runtime only deals in plain integers:
//
//	sword(x)     → sbyte(x)      when x is 8 bits wide
//	setmem(a, v) → setmem(a, v, 1) when v is 8 bits wide
//	setreg(rd, v) → setreg("rd", v)
type compiler struct {
	expr *Expr
	pos  string
}

func (c *compiler) fail(e syntax.Expr, err error) error {
	start, _ := e.Span()
	c.pos = fmt.Sprintf("col %d", start.Col)
	return err
}

// check validates a parsed expression and returns its width. stmt is true
// when the expression's value is discarded, which is where mutators are
// allowed.
func (c *compiler) check(e syntax.Expr, stmt bool) (width int, err error) {
	switch e := e.(type) {
	case *syntax.ParenExpr:
		return c.check(e.X, stmt)
	case *syntax.Literal:
		if e.Token != syntax.INT {
			err = c.fail(e, ErrUnsupported)
			return
		}
		if _, ok := e.Value.(int64); !ok {
			err = c.fail(e, ErrIntegerOverflow)
			return
		}
	case *syntax.Ident:
		if op, ok := operandMap[e.Name]; ok {
			c.expr.uses[op] = true
			width = operandWidth[op]
			return
		}
		if !constNames[e.Name] {
			err = c.fail(e, fmt.Errorf("%w: %v", ErrUnknownName, e.Name))
		}
	case *syntax.TupleExpr:
		if !stmt {
			err = c.fail(e, ErrEffectPosition)
			return
		}
		for _, item := range e.List {
			width, err = c.check(item, true)
			if err != nil {
				return
			}
		}
	case *syntax.CondExpr:
		_, err = c.check(e.Cond, false)
		if err != nil {
			return
		}
		var t, f int
		t, err = c.check(e.True, stmt)
		if err != nil {
			return
		}
		f, err = c.check(e.False, stmt)
		if err != nil {
			return
		}
		width = max(t, f)
	case *syntax.UnaryExpr:
		switch e.Op {
		case syntax.MINUS, syntax.PLUS, syntax.TILDE, syntax.NOT:
		default:
			err = c.fail(e, fmt.Errorf("%w: %v", ErrUnsupported, e.Op))
			return
		}
		width, err = c.check(e.X, false)
		if e.Op == syntax.NOT {
			width = 0
		}
	case *syntax.BinaryExpr:
		compare := false
		switch e.Op {
		case syntax.PLUS, syntax.MINUS, syntax.STAR, syntax.SLASHSLASH, syntax.PERCENT,
			syntax.AMP, syntax.PIPE, syntax.CIRCUMFLEX, syntax.LTLT, syntax.GTGT,
			syntax.AND, syntax.OR:
		case syntax.EQL, syntax.NEQ, syntax.LT, syntax.LE, syntax.GT, syntax.GE:
			compare = true
		default:
			err = c.fail(e, fmt.Errorf("%w: %v", ErrUnsupported, e.Op))
			return
		}
		var x, y int
		x, err = c.check(e.X, false)
		if err != nil {
			return
		}
		y, err = c.check(e.Y, false)
		if err != nil {
			return
		}
		if !compare {
			width = max(x, y)
		}
	case *syntax.CallExpr:
		width, err = c.checkCall(e, stmt)
	default:
		err = c.fail(e, ErrUnsupported)
	}

	return
}

func (c *compiler) checkArgs(args []syntax.Expr) (widths []int, err error) {
	for _, arg := range args {
		var width int
		width, err = c.check(arg, false)
		if err != nil {
			return
		}
		widths = append(widths, width)
	}
	return
}

func (c *compiler) checkCall(e *syntax.CallExpr, stmt bool) (width int, err error) {
	fn, ok := e.Fn.(*syntax.Ident)
	if !ok {
		err = c.fail(e, ErrUnsupported)
		return
	}

	for _, arg := range e.Args {
		if bin, ok := arg.(*syntax.BinaryExpr); ok && bin.Op == syntax.EQ {
			err = c.fail(arg, fmt.Errorf("%w: keyword argument", ErrUnsupported))
			return
		}
	}

	if cv, ok := convMap[fn.Name]; ok {
		if len(e.Args) != 1 {
			err = c.fail(e, fmt.Errorf("%w: %v", ErrArity, fn.Name))
			return
		}
		var widths []int
		widths, err = c.checkArgs(e.Args)
		if err != nil {
			return
		}
		if cv == CONV_SWORD && widths[0] == 8 {
			fn.Name = CONV_SBYTE.String()
		}
		width = convWidth[cv]
		return
	}

	switch fn.Name {
	case "getmem":
		if len(e.Args) < 1 || len(e.Args) > 2 {
			err = c.fail(e, fmt.Errorf("%w: %v", ErrArity, fn.Name))
			return
		}
		width = 16
		if len(e.Args) == 2 {
			lit, ok := e.Args[1].(*syntax.Literal)
			if !ok || lit.Token != syntax.INT {
				err = c.fail(e.Args[1], ErrMemorySize)
				return
			}
			switch v, _ := lit.Value.(int64); v {
			case 1:
				width = 8
			case 2:
			default:
				err = c.fail(e.Args[1], ErrMemorySize)
				return
			}
		}
		_, err = c.checkArgs(e.Args)
	case "setreg":
		if !stmt {
			err = c.fail(e, ErrEffectPosition)
			return
		}
		if len(e.Args) != 2 {
			err = c.fail(e, fmt.Errorf("%w: %v", ErrArity, fn.Name))
			return
		}
		target, ok := e.Args[0].(*syntax.Ident)
		if !ok || (target.Name != "rd" && target.Name != "rs") {
			err = c.fail(e.Args[0], ErrRegisterTarget)
			return
		}
		c.expr.uses[operandMap[target.Name]] = true
		_, err = c.checkArgs(e.Args[1:])
		if err != nil {
			return
		}
		e.Args[0] = &syntax.Literal{
			Token:    syntax.STRING,
			TokenPos: target.NamePos,
			Raw:      strconv.Quote(target.Name),
			Value:    target.Name,
		}
		c.expr.effects = true
	case "setmem":
		if !stmt {
			err = c.fail(e, ErrEffectPosition)
			return
		}
		if len(e.Args) != 2 {
			err = c.fail(e, fmt.Errorf("%w: %v", ErrArity, fn.Name))
			return
		}
		var widths []int
		widths, err = c.checkArgs(e.Args)
		if err != nil {
			return
		}
		if widths[1] == 8 {
			e.Args = append(e.Args, &syntax.Literal{
				Token:    syntax.INT,
				TokenPos: e.Rparen,
				Raw:      "1",
				Value:    int64(1),
			})
		}
		c.expr.effects = true
	default:
		err = c.fail(e, fmt.Errorf("%w: %v", ErrUnknownName, fn.Name))
	}

	return
}
