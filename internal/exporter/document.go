package exporter

import (
	"fmt"

	"doctree/internal/srctree"
	"doctree/internal/testdoc"
)

// DocumentVersion is bumped whenever the serialized layout changes
const DocumentVersion = 1

// Code type tags
const (
	CodeTypeString  = "string"
	CodeTypeSubCall = "sub_call"
	CodeTypeUnknown = "unknown"
)

// Document is the serialized form of a SourceTree. Every table keeps its
// insertion order.
type Document struct {
	Version       int           `json:"version" yaml:"version"`
	RootClasses   []ClassDoc    `json:"root_classes" yaml:"root_classes"`
	SubClasses    []ClassDoc    `json:"sub_classes" yaml:"sub_classes"`
	RootFunctions []FunctionDoc `json:"root_functions" yaml:"root_functions"`
	SubFunctions  []FunctionDoc `json:"sub_functions" yaml:"sub_functions"`
}

// ClassDoc is one TestClass. Methods lists the owned function keys.
type ClassDoc struct {
	Key           string   `json:"key" yaml:"key"`
	QualifiedName string   `json:"qualified_name" yaml:"qualified_name"`
	TestDoc       *string  `json:"test_doc" yaml:"test_doc"`
	Page          bool     `json:"page" yaml:"page"`
	Methods       []string `json:"methods" yaml:"methods"`
}

type FunctionDoc struct {
	Key           string    `json:"key" yaml:"key"`
	QualifiedName string    `json:"qualified_name" yaml:"qualified_name"`
	TestDoc       *string   `json:"test_doc" yaml:"test_doc"`
	CaptureStyle  string    `json:"capture_style" yaml:"capture_style"`
	ArgVariables  []string  `json:"arg_variables" yaml:"arg_variables"`
	TestClass     string    `json:"test_class" yaml:"test_class"`
	CodeBody      []LineDoc `json:"code_body" yaml:"code_body"`
}

type LineDoc struct {
	StartLine int     `json:"start_line" yaml:"start_line"`
	EndLine   int     `json:"end_line" yaml:"end_line"`
	Code      CodeDoc `json:"code" yaml:"code"`
}

// CodeDoc is a tagged Code. Value is only set for non-null string literals;
// Target and Args only for sub calls.
type CodeDoc struct {
	Type         string    `json:"type" yaml:"type"`
	OriginalText string    `json:"original_text" yaml:"original_text"`
	Value        *string   `json:"value,omitempty" yaml:"value,omitempty"`
	Target       string    `json:"target,omitempty" yaml:"target,omitempty"`
	Args         []CodeDoc `json:"args,omitempty" yaml:"args,omitempty"`
}

// NewDocument converts a tree into its serialized form
func NewDocument(tree *srctree.SourceTree) *Document {
	return &Document{
		Version:       DocumentVersion,
		RootClasses:   classDocs(tree.RootClasses.All()),
		SubClasses:    classDocs(tree.SubClasses.All()),
		RootFunctions: functionDocs(tree.RootFuncs.All()),
		SubFunctions:  functionDocs(tree.SubFuncs.All()),
	}
}

func classDocs(classes []*srctree.TestClass) []ClassDoc {
	docs := make([]ClassDoc, 0, len(classes))
	for _, c := range classes {
		docs = append(docs, ClassDoc{
			Key:           c.Key,
			QualifiedName: c.QualifiedName,
			TestDoc:       c.TestDoc,
			Page:          c.Page,
			Methods:       c.TestMethodKeys(),
		})
	}
	return docs
}

func functionDocs(funcs []*srctree.TestFunction) []FunctionDoc {
	docs := make([]FunctionDoc, 0, len(funcs))
	for _, f := range funcs {
		body := make([]LineDoc, 0, len(f.CodeBody))
		for _, line := range f.CodeBody {
			body = append(body, LineDoc{
				StartLine: line.StartLine,
				EndLine:   line.EndLine,
				Code:      codeDoc(line.Code),
			})
		}
		docs = append(docs, FunctionDoc{
			Key:           f.Key,
			QualifiedName: f.QualifiedName,
			TestDoc:       f.TestDoc,
			CaptureStyle:  string(f.CaptureStyle),
			ArgVariables:  f.ArgVariables,
			TestClass:     f.TestClassKey,
			CodeBody:      body,
		})
	}
	return docs
}

// codeEncoder converts Code variants into CodeDoc
type codeEncoder struct {
	out CodeDoc
}

func codeDoc(c srctree.Code) CodeDoc {
	enc := &codeEncoder{}
	c.Accept(enc)
	return enc.out
}

func (e *codeEncoder) VisitStringLiteral(c *srctree.StringLiteral) {
	e.out = CodeDoc{Type: CodeTypeString, OriginalText: c.OriginalText(), Value: c.Value}
}

func (e *codeEncoder) VisitSubCall(c *srctree.SubCall) {
	args := make([]CodeDoc, 0, len(c.Args))
	for _, arg := range c.Args {
		args = append(args, codeDoc(arg))
	}
	e.out = CodeDoc{Type: CodeTypeSubCall, OriginalText: c.OriginalText(), Target: c.SubFunctionKey, Args: args}
}

func (e *codeEncoder) VisitUnknown(c *srctree.Unknown) {
	e.out = CodeDoc{Type: CodeTypeUnknown, OriginalText: c.OriginalText()}
}

// Tree rebuilds the SourceTree a document was made from
func (d *Document) Tree() (*srctree.SourceTree, error) {
	if d.Version != DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %d", d.Version)
	}
	tree := srctree.New()

	for _, table := range []struct {
		docs  []FunctionDoc
		funcs *srctree.FuncTable
	}{
		{d.RootFunctions, tree.RootFuncs},
		{d.SubFunctions, tree.SubFuncs},
	} {
		for _, fd := range table.docs {
			fn, err := fd.function()
			if err != nil {
				return nil, err
			}
			table.funcs.Put(fn)
		}
	}

	for _, table := range []struct {
		docs    []ClassDoc
		classes *srctree.ClassTable
	}{
		{d.RootClasses, tree.RootClasses},
		{d.SubClasses, tree.SubClasses},
	} {
		for _, cd := range table.docs {
			c := srctree.NewTestClass(cd.Key, cd.QualifiedName, cd.TestDoc, cd.Page)
			for _, key := range cd.Methods {
				fn, ok := tree.Function(key)
				if !ok {
					return nil, fmt.Errorf("class %s lists unknown function %s", cd.Key, key)
				}
				c.AddTestMethod(fn)
			}
			if _, added := table.classes.AddIfAbsent(c); !added {
				return nil, fmt.Errorf("duplicate class key %s", cd.Key)
			}
		}
	}
	return tree, nil
}

func (fd FunctionDoc) function() (*srctree.TestFunction, error) {
	capture := testdoc.DefaultCaptureStyle
	if fd.CaptureStyle != "" {
		var err error
		if capture, err = testdoc.ParseCaptureStyle(fd.CaptureStyle); err != nil {
			return nil, fmt.Errorf("function %s: %w", fd.Key, err)
		}
	}
	fn := srctree.NewTestFunction(fd.Key, fd.QualifiedName, fd.TestDoc, capture, fd.ArgVariables)
	fn.TestClassKey = fd.TestClass
	for _, line := range fd.CodeBody {
		code, err := line.Code.code()
		if err != nil {
			return nil, fmt.Errorf("function %s line %d: %w", fd.Key, line.StartLine, err)
		}
		fn.AddCodeLine(srctree.CodeLine{StartLine: line.StartLine, EndLine: line.EndLine, Code: code})
	}
	return fn, nil
}

func (cd CodeDoc) code() (srctree.Code, error) {
	switch cd.Type {
	case CodeTypeString:
		return srctree.NewStringLiteral(cd.Value, cd.OriginalText), nil
	case CodeTypeSubCall:
		args := make([]srctree.Code, 0, len(cd.Args))
		for _, a := range cd.Args {
			arg, err := a.code()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return srctree.NewSubCall(cd.Target, args, cd.OriginalText), nil
	case CodeTypeUnknown:
		return srctree.NewUnknown(cd.OriginalText), nil
	}
	return nil, fmt.Errorf("unknown code type %q", cd.Type)
}
