package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/parser"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

func parse(t *testing.T, src string) *syntax.Unit {
	t.Helper()

	unit, err := parser.New().Parse(context.Background(), "Test.java", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, unit.Root)

	return unit
}

// outline renders a tree as indented "KIND(name)" lines.
func outline(tree *syntax.Tree) string {
	var sb strings.Builder

	var visit func(t *syntax.Tree, depth int)

	visit = func(t *syntax.Tree, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(t.String())
		sb.WriteByte('\n')

		for c := range t.Children() {
			visit(c, depth+1)
		}
	}

	visit(tree, 0)

	return sb.String()
}

func find(unit *syntax.Unit, kind syntax.Kind) []*syntax.Tree {
	var out []*syntax.Tree

	for p := range unit.Walk() {
		if p.Leaf().Kind == kind {
			out = append(out, p.Leaf())
		}
	}

	return out
}

// written drops the trees the lowering synthesized.
func written(trees []*syntax.Tree) []*syntax.Tree {
	var out []*syntax.Tree

	for _, t := range trees {
		if !t.IsSynthetic() {
			out = append(out, t)
		}
	}

	return out
}

func TestParseSimpleClass(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { void m() { int x = 1; } }")

	want := `COMPILATION_UNIT
  CLASS(A)
    MODIFIERS
    METHOD(<init>)
      MODIFIERS
      BLOCK
        EXPRESSION_STATEMENT
          METHOD_INVOCATION
            IDENTIFIER(super)
    METHOD(m)
      MODIFIERS
      PRIMITIVE_TYPE(void)
      BLOCK
        VARIABLE(x)
          MODIFIERS
          PRIMITIVE_TYPE(int)
          LITERAL(1)
`
	assert.Equal(t, want, outline(unit.Root))
	assert.Empty(t, unit.Diagnostics)
}

func TestSyntheticTreesHaveNoPosition(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { void m() { int x = 1; } }")

	class := unit.Root.First(syntax.RoleMember)
	require.NotNil(t, class)
	assert.True(t, class.First(syntax.RoleModifiers).IsSynthetic())

	ctor := class.First(syntax.RoleMember)
	require.Equal(t, parser.ConstructorName, ctor.Name)
	assert.True(t, ctor.IsSynthetic())
	assert.Equal(t, syntax.NoPos, ctor.End)

	method := class.All(syntax.RoleMember)[1]
	assert.Equal(t, "void m() { int x = 1; }", method.Text(unit.Source))
}

func TestAnonymousConstructorForwardsArguments(t *testing.T) {
	t.Parallel()

	unit := parse(t, `class A { Thread t = new Thread("worker", 1) { public void run() {} }; }`)

	creation := find(unit, syntax.NewClass)
	require.Len(t, creation, 1)

	members := creation[0].First(syntax.RoleBody).All(syntax.RoleMember)
	require.Len(t, members, 2)
	assert.Equal(t, "run", members[1].Name)

	ctor := members[0]
	require.Equal(t, parser.ConstructorName, ctor.Name)
	assert.True(t, ctor.IsSynthetic())

	var params []string
	for _, p := range ctor.All(syntax.RoleParam) {
		params = append(params, p.Name)
		assert.Nil(t, p.First(syntax.RoleType))
	}

	assert.Equal(t, []string{"x0", "x1"}, params)

	stmt := ctor.First(syntax.RoleBody).First(syntax.RoleBody)
	require.NotNil(t, stmt)

	superCall := stmt.First(syntax.RoleExpr)
	require.Equal(t, syntax.MethodInvocation, superCall.Kind)
	assert.Equal(t, "super", superCall.First(syntax.RoleExpr).Name)

	var args []string
	for _, a := range superCall.All(syntax.RoleArg) {
		args = append(args, a.Name)
	}

	assert.Equal(t, []string{"x0", "x1"}, args)
}

func TestPositionsSliceSource(t *testing.T) {
	t.Parallel()

	src := `package p;

import java.util.List;

public class Box<T extends Comparable<T>> {
    private final List<T> items;

    public int size(int[] extra) {
        return items.size() + extra.length;
    }
}
`
	unit := parse(t, src)

	for p := range unit.Walk() {
		tree := p.Leaf()
		if tree.IsSynthetic() {
			assert.Equal(t, syntax.NoPos, tree.End, tree.String())

			continue
		}

		require.LessOrEqual(t, 0, tree.Pos, tree.String())
		require.LessOrEqual(t, tree.Pos, tree.End, tree.String())
		require.LessOrEqual(t, tree.End, len(unit.Source), tree.String())
	}

	imports := find(unit, syntax.Import)
	require.Len(t, imports, 1)
	assert.Equal(t, "import java.util.List;", imports[0].Text(unit.Source))
	assert.Equal(t, "java.util.List", syntax.QualifiedName(imports[0].First(syntax.RoleQualifier)))
	assert.Equal(t, "p", unit.Package())

	params := find(unit, syntax.ParameterizedType)
	require.NotEmpty(t, params)
	assert.Equal(t, "Comparable<T>", params[0].Text(unit.Source))
}

func TestForLoopBodyIsNotWrapped(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { void m(int x) { for (;;) x++; } }")

	loops := find(unit, syntax.ForLoop)
	require.Len(t, loops, 1)

	want := `FOR_LOOP
  EXPRESSION_STATEMENT
    UNARY
      IDENTIFIER(x)
`
	assert.Equal(t, want, outline(loops[0]))
	assert.True(t, loops[0].First(syntax.RoleBody).First(syntax.RoleExpr).Flags.Has(syntax.FlagPostfix))
}

func TestForLoopHeader(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { void m() { for (int i = 0, j = 1; i < j; i++, j--) { } } }")

	loop := find(unit, syntax.ForLoop)[0]
	assert.Len(t, loop.All(syntax.RoleInit), 2)
	assert.Len(t, loop.All(syntax.RoleCond), 1)
	assert.Len(t, loop.All(syntax.RoleUpdate), 2)
	assert.Equal(t, syntax.Block, loop.First(syntax.RoleBody).Kind)
}

func TestMultipleDeclaratorsSplit(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { int a, b = 2; }")

	vars := find(unit, syntax.Variable)
	require.Len(t, vars, 2)
	assert.Equal(t, "a", vars[0].Name)
	assert.Equal(t, "b", vars[1].Name)
	assert.Equal(t, "int a", vars[0].Text(unit.Source))
	assert.Equal(t, "int a, b = 2;", vars[1].Text(unit.Source))
	assert.Same(t, vars[0].First(syntax.RoleType), vars[1].First(syntax.RoleType))
}

func TestSwitchStatementAndExpression(t *testing.T) {
	t.Parallel()

	src := `class A {
    int m(int k) {
        switch (k) {
            case 1:
            case 2:
                return 1;
            default:
                break;
        }
        return switch (k) { case 3 -> 4; default -> 5; };
    }
}`
	unit := parse(t, src)

	switches := find(unit, syntax.Switch)
	require.Len(t, switches, 1)

	cases := switches[0].All(syntax.RoleCase)
	require.Len(t, cases, 3)
	assert.Empty(t, cases[0].All(syntax.RoleBody))
	assert.Len(t, cases[1].All(syntax.RoleBody), 1)
	assert.Equal(t, syntax.DefaultCaseLabel, cases[2].First(syntax.RoleLabel).Kind)

	exprs := find(unit, syntax.SwitchExpression)
	require.Len(t, exprs, 1)
	assert.Len(t, exprs[0].All(syntax.RoleCase), 2)
	assert.True(t, exprs[0].All(syntax.RoleCase)[0].Flags.Has(syntax.FlagArrow))
}

func TestExpressions(t *testing.T) {
	t.Parallel()

	src := `class A {
    void m(Object o, int[] xs) {
        String s = "a" + 1;
        xs[0] += (int) 2L;
        boolean b = o instanceof String str && !str.isEmpty();
        Runnable r = () -> System.out.println(s);
        java.util.function.Function<String, Integer> f = Integer::parseInt;
        int[][] grid = new int[3][4];
        int[] init = {1, 2};
        Object c = b ? new Object() { } : null;
    }
}`
	unit := parse(t, src)
	assert.Empty(t, unit.Diagnostics)

	assert.Len(t, find(unit, syntax.CompoundAssignment), 1)
	assert.Len(t, find(unit, syntax.TypeCast), 1)
	assert.Len(t, find(unit, syntax.BindingPattern), 1)
	assert.Len(t, find(unit, syntax.Lambda), 1)
	assert.Len(t, find(unit, syntax.MemberReference), 1)
	assert.Len(t, find(unit, syntax.Conditional), 1)

	arrays := find(unit, syntax.NewArray)
	require.Len(t, arrays, 2)
	assert.Len(t, arrays[0].All(syntax.RoleDim), 2)
	assert.Len(t, arrays[1].All(syntax.RoleElem), 2)
	assert.Nil(t, arrays[1].First(syntax.RoleType))

	// The implicit constructors of A and of the anonymous body call super().
	all := find(unit, syntax.MethodInvocation)
	require.Len(t, all, 4)

	calls := written(all)
	require.Len(t, calls, 2)
	assert.Equal(t, "isEmpty", calls[0].First(syntax.RoleExpr).Name)
	assert.Equal(t, syntax.MemberSelect, calls[1].First(syntax.RoleExpr).Kind)

	anon := find(unit, syntax.NewClass)
	require.Len(t, anon, 1)
	body := anon[0].First(syntax.RoleBody)
	require.NotNil(t, body)
	assert.Equal(t, syntax.Class, body.Kind)
	assert.Empty(t, body.Name)

	ctor := body.First(syntax.RoleMember)
	require.NotNil(t, ctor)
	assert.Equal(t, parser.ConstructorName, ctor.Name)
	assert.True(t, ctor.IsSynthetic())
	assert.Empty(t, ctor.All(syntax.RoleParam))

	lits := find(unit, syntax.Literal)
	kinds := make(map[string]syntax.LiteralKind, len(lits))

	for _, lit := range lits {
		kinds[lit.Name] = lit.Lit
	}

	assert.Equal(t, syntax.LitString, kinds[`"a"`])
	assert.Equal(t, syntax.LitLong, kinds["2L"])
	assert.Equal(t, syntax.LitNull, kinds["null"])
}

func TestDeclarationsOfEveryKind(t *testing.T) {
	t.Parallel()

	src := `package p;
import static java.lang.Math.*;
@interface Marker { int value() default 1; }
interface Shape extends Comparable<Shape> { double area(); }
enum Color { RED, GREEN("g") { }; Color() { } Color(String s) { } }
record Point(int x, int y) { }
`
	unit := parse(t, src)

	imp := find(unit, syntax.Import)[0]
	assert.True(t, imp.Flags.Has(syntax.FlagStatic))
	assert.True(t, imp.Flags.Has(syntax.FlagOnDemand))

	assert.Len(t, find(unit, syntax.AnnotationType), 1)
	assert.Len(t, find(unit, syntax.Interface), 1)
	assert.Len(t, find(unit, syntax.Enum), 1)
	assert.Len(t, find(unit, syntax.Package), 1)

	records := find(unit, syntax.Record)
	require.Len(t, records, 1)

	members := records[0].All(syntax.RoleMember)
	require.Len(t, members, 3)
	assert.Equal(t, parser.ConstructorName, members[0].Name)
	assert.Len(t, members[0].All(syntax.RoleParam), 2)
	assert.True(t, members[1].Flags.Has(syntax.FlagRecordComponent))

	var constants []string

	for _, v := range find(unit, syntax.Variable) {
		if v.Flags.Has(syntax.FlagEnumConstant) {
			constants = append(constants, v.Name)
		}
	}

	assert.Equal(t, []string{"RED", "GREEN"}, constants)
}

func TestTryCatchAndResources(t *testing.T) {
	t.Parallel()

	src := `class A {
    void m() throws Exception {
        try (var in = open(); java.io.Reader r = null) {
        } catch (IllegalStateException | IllegalArgumentException e) {
        } finally {
        }
    }
    java.io.InputStream open() { return null; }
}`
	unit := parse(t, src)

	tries := find(unit, syntax.Try)
	require.Len(t, tries, 1)
	assert.Len(t, tries[0].All(syntax.RoleResource), 2)
	assert.NotNil(t, tries[0].First(syntax.RoleFinally))

	catches := find(unit, syntax.Catch)
	require.Len(t, catches, 1)
	param := catches[0].First(syntax.RoleParam)
	assert.Equal(t, "e", param.Name)
	assert.Equal(t, syntax.UnionType, param.First(syntax.RoleType).Kind)
}

func TestSyntaxErrorsBecomeErroneous(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A { void m() { int x = ; } }")

	require.NotEmpty(t, unit.Diagnostics)
	assert.Positive(t, unit.Diagnostics[0].Line)
	assert.Contains(t, unit.Diagnostics[0].String(), "1:")
}

func TestParseHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.New().Parse(ctx, "A.java", []byte("class A {}"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestParserIsReusable(t *testing.T) {
	t.Parallel()

	p := parser.New()

	for range 3 {
		unit, err := p.Parse(context.Background(), "A.java", []byte("class A {}"))
		require.NoError(t, err)
		assert.Equal(t, syntax.Class, unit.Root.First(syntax.RoleMember).Kind)
	}
}
