package srctree

// Code is the closed set of statement models: *StringLiteral, *SubCall and
// *Unknown. Consumers switch exhaustively through Accept.
type Code interface {
	// OriginalText is the trimmed source text of the owning statement
	OriginalText() string
	SetOriginalText(text string)
	Accept(v CodeVisitor)

	sealed()
}

// CodeVisitor handles every Code variant
type CodeVisitor interface {
	VisitStringLiteral(c *StringLiteral)
	VisitSubCall(c *SubCall)
	VisitUnknown(c *Unknown)
}

type codeBase struct {
	originalText string
}

func (b *codeBase) OriginalText() string {
	return b.originalText
}

func (b *codeBase) SetOriginalText(text string) {
	b.originalText = text
}

func (b *codeBase) sealed() {}

// StringLiteral is a string value; Value is nil for the null literal
type StringLiteral struct {
	codeBase
	Value *string
}

// NewStringLiteral creates a literal with the given value (nil for null)
func NewStringLiteral(value *string, originalText string) *StringLiteral {
	return &StringLiteral{codeBase: codeBase{originalText: originalText}, Value: value}
}

func (c *StringLiteral) Accept(v CodeVisitor) { v.VisitStringLiteral(c) }

// SubCall is a call to a function of the sub function table
type SubCall struct {
	codeBase
	SubFunctionKey string
	Args           []Code
}

// NewSubCall creates a call to targetKey with argument models in order
func NewSubCall(targetKey string, args []Code, originalText string) *SubCall {
	if args == nil {
		args = []Code{}
	}
	return &SubCall{codeBase: codeBase{originalText: originalText}, SubFunctionKey: targetKey, Args: args}
}

func (c *SubCall) Accept(v CodeVisitor) { v.VisitSubCall(c) }

// Unknown is anything that could not be modelled
type Unknown struct {
	codeBase
}

// NewUnknown creates an unknown code with the given source text
func NewUnknown(originalText string) *Unknown {
	return &Unknown{codeBase: codeBase{originalText: originalText}}
}

func (c *Unknown) Accept(v CodeVisitor) { v.VisitUnknown(c) }

// Walk calls fn for code and then, depth first, for every nested argument
func Walk(code Code, fn func(Code)) {
	if code == nil {
		return
	}
	fn(code)
	if call, ok := code.(*SubCall); ok {
		for _, arg := range call.Args {
			Walk(arg, fn)
		}
	}
}
