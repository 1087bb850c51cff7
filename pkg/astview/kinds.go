package astview

import (
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Recognize maps a front-end kind to its node kind. It reports false for
// kinds outside the node set: such trees get no node and their children
// attach to the nearest ancestor that has one.
//
//nolint:cyclop,funlen,gocyclo // One arm per grammar kind.
func Recognize(kind syntax.Kind) (node.Kind, bool) {
	switch kind {
	case syntax.CompilationUnit:
		return node.KindCompilationUnit, true
	case syntax.Import:
		return node.KindImport, true
	case syntax.Class:
		return node.KindClass, true
	case syntax.Interface:
		return node.KindInterface, true
	case syntax.Enum:
		return node.KindEnum, true
	case syntax.AnnotationType:
		return node.KindAnnotationType, true
	case syntax.Record:
		return node.KindRecord, true
	case syntax.Method:
		return node.KindMethod, true
	case syntax.Variable:
		return node.KindVariable, true
	case syntax.TypeParameter:
		return node.KindTypeParameter, true
	case syntax.Annotation:
		return node.KindAnnotation, true
	case syntax.AnnotatedType:
		return node.KindAnnotatedType, true
	case syntax.Modifiers:
		return node.KindModifiers, true
	case syntax.Block:
		return node.KindBlock, true
	case syntax.If:
		return node.KindIf, true
	case syntax.WhileLoop:
		return node.KindWhileLoop, true
	case syntax.DoWhileLoop:
		return node.KindDoWhileLoop, true
	case syntax.ForLoop:
		return node.KindForLoop, true
	case syntax.EnhancedForLoop:
		return node.KindEnhancedForLoop, true
	case syntax.Switch:
		return node.KindSwitch, true
	case syntax.Case:
		return node.KindCase, true
	case syntax.Try:
		return node.KindTry, true
	case syntax.Catch:
		return node.KindCatch, true
	case syntax.Synchronized:
		return node.KindSynchronized, true
	case syntax.LabeledStatement:
		return node.KindLabeledStatement, true
	case syntax.Break:
		return node.KindBreak, true
	case syntax.Continue:
		return node.KindContinue, true
	case syntax.Return:
		return node.KindReturn, true
	case syntax.Throw:
		return node.KindThrow, true
	case syntax.Assert:
		return node.KindAssert, true
	case syntax.ExpressionStatement:
		return node.KindExpressionStatement, true
	case syntax.EmptyStatement:
		return node.KindEmptyStatement, true
	case syntax.Literal:
		return node.KindLiteral, true
	case syntax.Identifier:
		return node.KindIdentifier, true
	case syntax.MemberSelect:
		return node.KindMemberSelect, true
	case syntax.MemberReference:
		return node.KindMemberReference, true
	case syntax.MethodInvocation:
		return node.KindMethodInvocation, true
	case syntax.NewClass:
		return node.KindNewClass, true
	case syntax.NewArray:
		return node.KindNewArray, true
	case syntax.Lambda:
		return node.KindLambdaExpression, true
	case syntax.Assignment:
		return node.KindAssignment, true
	case syntax.CompoundAssignment:
		return node.KindCompoundAssignment, true
	case syntax.Unary:
		return node.KindUnary, true
	case syntax.Binary:
		return node.KindBinary, true
	case syntax.Conditional:
		return node.KindConditionalExpression, true
	case syntax.TypeCast:
		return node.KindTypeCast, true
	case syntax.InstanceOf:
		return node.KindInstanceOf, true
	case syntax.ArrayAccess:
		return node.KindArrayAccess, true
	case syntax.Parenthesized:
		return node.KindParenthesized, true
	case syntax.PrimitiveType:
		return node.KindPrimitiveType, true
	case syntax.ArrayType:
		return node.KindArrayType, true
	case syntax.ParameterizedType:
		return node.KindParameterizedType, true
	case syntax.UnionType:
		return node.KindUnionType, true
	case syntax.IntersectionType:
		return node.KindIntersectionType, true
	case syntax.Wildcard:
		return node.KindWildcard, true
	case syntax.Other:
		return node.KindOther, true
	case syntax.Erroneous:
		return node.KindErroneous, true
	case syntax.Package, syntax.Module, syntax.Requires, syntax.Exports, syntax.Opens,
		syntax.Uses, syntax.Provides, syntax.SwitchExpression, syntax.Yield,
		syntax.BindingPattern, syntax.RecordPattern, syntax.ConstantCaseLabel,
		syntax.PatternCaseLabel, syntax.DefaultCaseLabel, syntax.Guard:
		return node.KindInvalid, false
	default:
		return node.KindInvalid, false
	}
}
