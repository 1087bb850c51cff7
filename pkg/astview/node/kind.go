package node

// Kind is the syntactic category of a node.
type Kind uint8

// Node kinds. The set is closed; names mirror the Java grammar.
const (
	KindInvalid Kind = iota
	KindCompilationUnit
	KindImport
	KindClass
	KindInterface
	KindEnum
	KindAnnotationType
	KindRecord
	KindMethod
	KindVariable
	KindTypeParameter
	KindAnnotation
	KindAnnotatedType
	KindModifiers
	KindBlock
	KindIf
	KindWhileLoop
	KindDoWhileLoop
	KindForLoop
	KindEnhancedForLoop
	KindSwitch
	KindCase
	KindTry
	KindCatch
	KindSynchronized
	KindLabeledStatement
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindAssert
	KindExpressionStatement
	KindEmptyStatement
	KindLiteral
	KindIdentifier
	KindMemberSelect
	KindMemberReference
	KindMethodInvocation
	KindNewClass
	KindNewArray
	KindLambdaExpression
	KindAssignment
	KindCompoundAssignment
	KindUnary
	KindBinary
	KindConditionalExpression
	KindTypeCast
	KindInstanceOf
	KindArrayAccess
	KindParenthesized
	KindPrimitiveType
	KindArrayType
	KindParameterizedType
	KindUnionType
	KindIntersectionType
	KindWildcard
	KindOther
	KindErroneous

	kindCount
)

//nolint:gochecknoglobals // Static name table indexed by Kind.
var kindNames = [kindCount]string{
	KindInvalid:               "INVALID",
	KindCompilationUnit:       "COMPILATION_UNIT",
	KindImport:                "IMPORT",
	KindClass:                 "CLASS",
	KindInterface:             "INTERFACE",
	KindEnum:                  "ENUM",
	KindAnnotationType:        "ANNOTATION_TYPE",
	KindRecord:                "RECORD",
	KindMethod:                "METHOD",
	KindVariable:              "VARIABLE",
	KindTypeParameter:         "TYPE_PARAMETER",
	KindAnnotation:            "ANNOTATION",
	KindAnnotatedType:         "ANNOTATED_TYPE",
	KindModifiers:             "MODIFIERS",
	KindBlock:                 "BLOCK",
	KindIf:                    "IF",
	KindWhileLoop:             "WHILE_LOOP",
	KindDoWhileLoop:           "DO_WHILE_LOOP",
	KindForLoop:               "FOR_LOOP",
	KindEnhancedForLoop:       "ENHANCED_FOR_LOOP",
	KindSwitch:                "SWITCH",
	KindCase:                  "CASE",
	KindTry:                   "TRY",
	KindCatch:                 "CATCH",
	KindSynchronized:          "SYNCHRONIZED",
	KindLabeledStatement:      "LABELED_STATEMENT",
	KindBreak:                 "BREAK",
	KindContinue:              "CONTINUE",
	KindReturn:                "RETURN",
	KindThrow:                 "THROW",
	KindAssert:                "ASSERT",
	KindExpressionStatement:   "EXPRESSION_STATEMENT",
	KindEmptyStatement:        "EMPTY_STATEMENT",
	KindLiteral:               "LITERAL",
	KindIdentifier:            "IDENTIFIER",
	KindMemberSelect:          "MEMBER_SELECT",
	KindMemberReference:       "MEMBER_REFERENCE",
	KindMethodInvocation:      "METHOD_INVOCATION",
	KindNewClass:              "NEW_CLASS",
	KindNewArray:              "NEW_ARRAY",
	KindLambdaExpression:      "LAMBDA_EXPRESSION",
	KindAssignment:            "ASSIGNMENT",
	KindCompoundAssignment:    "COMPOUND_ASSIGNMENT",
	KindUnary:                 "UNARY",
	KindBinary:                "BINARY",
	KindConditionalExpression: "CONDITIONAL_EXPRESSION",
	KindTypeCast:              "TYPE_CAST",
	KindInstanceOf:            "INSTANCE_OF",
	KindArrayAccess:           "ARRAY_ACCESS",
	KindParenthesized:         "PARENTHESIZED",
	KindPrimitiveType:         "PRIMITIVE_TYPE",
	KindArrayType:             "ARRAY_TYPE",
	KindParameterizedType:     "PARAMETERIZED_TYPE",
	KindUnionType:             "UNION_TYPE",
	KindIntersectionType:      "INTERSECTION_TYPE",
	KindWildcard:              "WILDCARD",
	KindOther:                 "OTHER",
	KindErroneous:             "ERRONEOUS",
}

// String returns the upper-case grammar name of the kind.
func (k Kind) String() string {
	if k >= kindCount {
		return kindNames[KindInvalid]
	}

	return kindNames[k]
}

// ParseKind maps a grammar name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindCompilationUnit; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}

	return KindInvalid, false
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindCompilationUnit; k < kindCount; k++ {
		out = append(out, k)
	}

	return out
}

// IsDeclaration reports whether the kind introduces a named entity.
func (k Kind) IsDeclaration() bool {
	switch k { //nolint:exhaustive // Only declaration kinds are of interest.
	case KindClass, KindInterface, KindEnum, KindAnnotationType, KindRecord,
		KindMethod, KindVariable, KindTypeParameter:
		return true
	default:
		return false
	}
}
