// Package syntax defines the resolved Java syntax tree produced by the front
// end. The shapes follow the classic compiler tree model: declaration names
// are attributes, each declarator is its own variable, and compiler-generated
// constructs carry no source position.
package syntax

// Kind is the grammar production of a Tree.
type Kind uint8

// Tree kinds.
const (
	Invalid Kind = iota
	CompilationUnit
	Package
	Import
	Module
	Requires
	Exports
	Opens
	Uses
	Provides
	Class
	Interface
	Enum
	AnnotationType
	Record
	Method
	Variable
	TypeParameter
	Annotation
	AnnotatedType
	Modifiers
	Block
	If
	WhileLoop
	DoWhileLoop
	ForLoop
	EnhancedForLoop
	Switch
	SwitchExpression
	Case
	ConstantCaseLabel
	PatternCaseLabel
	DefaultCaseLabel
	Guard
	BindingPattern
	RecordPattern
	Try
	Catch
	Synchronized
	LabeledStatement
	Break
	Continue
	Return
	Throw
	Assert
	Yield
	ExpressionStatement
	EmptyStatement
	Literal
	Identifier
	MemberSelect
	MemberReference
	MethodInvocation
	NewClass
	NewArray
	Lambda
	Assignment
	CompoundAssignment
	Unary
	Binary
	Conditional
	TypeCast
	InstanceOf
	ArrayAccess
	Parenthesized
	PrimitiveType
	ArrayType
	ParameterizedType
	UnionType
	IntersectionType
	Wildcard
	Other
	Erroneous

	kindCount
)

//nolint:gochecknoglobals // Static name table indexed by Kind.
var kindNames = [kindCount]string{
	Invalid:             "INVALID",
	CompilationUnit:     "COMPILATION_UNIT",
	Package:             "PACKAGE",
	Import:              "IMPORT",
	Module:              "MODULE",
	Requires:            "REQUIRES",
	Exports:             "EXPORTS",
	Opens:               "OPENS",
	Uses:                "USES",
	Provides:            "PROVIDES",
	Class:               "CLASS",
	Interface:           "INTERFACE",
	Enum:                "ENUM",
	AnnotationType:      "ANNOTATION_TYPE",
	Record:              "RECORD",
	Method:              "METHOD",
	Variable:            "VARIABLE",
	TypeParameter:       "TYPE_PARAMETER",
	Annotation:          "ANNOTATION",
	AnnotatedType:       "ANNOTATED_TYPE",
	Modifiers:           "MODIFIERS",
	Block:               "BLOCK",
	If:                  "IF",
	WhileLoop:           "WHILE_LOOP",
	DoWhileLoop:         "DO_WHILE_LOOP",
	ForLoop:             "FOR_LOOP",
	EnhancedForLoop:     "ENHANCED_FOR_LOOP",
	Switch:              "SWITCH",
	SwitchExpression:    "SWITCH_EXPRESSION",
	Case:                "CASE",
	ConstantCaseLabel:   "CONSTANT_CASE_LABEL",
	PatternCaseLabel:    "PATTERN_CASE_LABEL",
	DefaultCaseLabel:    "DEFAULT_CASE_LABEL",
	Guard:               "GUARD",
	BindingPattern:      "BINDING_PATTERN",
	RecordPattern:       "RECORD_PATTERN",
	Try:                 "TRY",
	Catch:               "CATCH",
	Synchronized:        "SYNCHRONIZED",
	LabeledStatement:    "LABELED_STATEMENT",
	Break:               "BREAK",
	Continue:            "CONTINUE",
	Return:              "RETURN",
	Throw:               "THROW",
	Assert:              "ASSERT",
	Yield:               "YIELD",
	ExpressionStatement: "EXPRESSION_STATEMENT",
	EmptyStatement:      "EMPTY_STATEMENT",
	Literal:             "LITERAL",
	Identifier:          "IDENTIFIER",
	MemberSelect:        "MEMBER_SELECT",
	MemberReference:     "MEMBER_REFERENCE",
	MethodInvocation:    "METHOD_INVOCATION",
	NewClass:            "NEW_CLASS",
	NewArray:            "NEW_ARRAY",
	Lambda:              "LAMBDA_EXPRESSION",
	Assignment:          "ASSIGNMENT",
	CompoundAssignment:  "COMPOUND_ASSIGNMENT",
	Unary:               "UNARY",
	Binary:              "BINARY",
	Conditional:         "CONDITIONAL_EXPRESSION",
	TypeCast:            "TYPE_CAST",
	InstanceOf:          "INSTANCE_OF",
	ArrayAccess:         "ARRAY_ACCESS",
	Parenthesized:       "PARENTHESIZED",
	PrimitiveType:       "PRIMITIVE_TYPE",
	ArrayType:           "ARRAY_TYPE",
	ParameterizedType:   "PARAMETERIZED_TYPE",
	UnionType:           "UNION_TYPE",
	IntersectionType:    "INTERSECTION_TYPE",
	Wildcard:            "WILDCARD",
	Other:               "OTHER",
	Erroneous:           "ERRONEOUS",
}

func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[Invalid]
	}

	return kindNames[k]
}

// IsClassLike reports whether k declares a class, interface, enum, record
// or annotation type.
func (k Kind) IsClassLike() bool {
	return k >= Class && k <= Record
}
