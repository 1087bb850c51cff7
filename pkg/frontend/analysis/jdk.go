package analysis

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Well-known class names.
const (
	objectName   = "java.lang.Object"
	stringName   = "java.lang.String"
	enumName     = "java.lang.Enum"
	recordName   = "java.lang.Record"
	className    = "java.lang.Class"
	iterableName = "java.lang.Iterable"
	javaLang     = "java.lang"
)

// classSpec declares one library class. Members use a compact notation:
//
//	m name(params)result    instance method, abstract in interfaces
//	d name(params)result    default interface method
//	s name(params)result    static method
//	f name type             instance field
//	sf name type            static field
//	c (params)              constructor
//
// Methods may start with type parameters, as in "s <T> of(T...)java.util.List<T>".
type classSpec struct {
	name       string
	super      string
	interfaces []string
	members    []string
	kind       SymbolKind
}

//nolint:gochecknoglobals,lll // Library table.
var librarySpecs = []classSpec{
	{name: "java.lang.Object", kind: KindClass, members: []string{
		"c ()", "m equals(java.lang.Object)boolean", "m hashCode()int", "m toString()java.lang.String",
		"m getClass()java.lang.Class<?>", "m notify()void", "m notifyAll()void", "m wait()void",
	}},
	{name: "java.lang.CharSequence", kind: KindInterface, members: []string{
		"m length()int", "m charAt(int)char", "m subSequence(int,int)java.lang.CharSequence", "m toString()java.lang.String",
		"d isEmpty()boolean",
	}},
	{name: "java.lang.Comparable<T>", kind: KindInterface, members: []string{"m compareTo(T)int"}},
	{name: "java.lang.String", kind: KindClass, interfaces: []string{"java.lang.CharSequence", "java.lang.Comparable<java.lang.String>", "java.io.Serializable"}, members: []string{
		"c ()", "c (java.lang.String)", "c (char[])",
		"m length()int", "m charAt(int)char", "m isEmpty()boolean", "m isBlank()boolean",
		"m substring(int)java.lang.String", "m substring(int,int)java.lang.String",
		"m indexOf(java.lang.String)int", "m indexOf(int)int", "m lastIndexOf(java.lang.String)int",
		"m contains(java.lang.CharSequence)boolean", "m startsWith(java.lang.String)boolean", "m endsWith(java.lang.String)boolean",
		"m equals(java.lang.Object)boolean", "m equalsIgnoreCase(java.lang.String)boolean", "m compareTo(java.lang.String)int",
		"m toUpperCase()java.lang.String", "m toLowerCase()java.lang.String", "m trim()java.lang.String", "m strip()java.lang.String",
		"m replace(java.lang.CharSequence,java.lang.CharSequence)java.lang.String", "m split(java.lang.String)java.lang.String[]",
		"m toCharArray()char[]", "m concat(java.lang.String)java.lang.String", "m repeat(int)java.lang.String",
		"m hashCode()int", "m toString()java.lang.String", "m chars()java.lang.Object", "m formatted(java.lang.Object...)java.lang.String",
		"s valueOf(java.lang.Object)java.lang.String", "s valueOf(int)java.lang.String", "s valueOf(char)java.lang.String",
		"s format(java.lang.String,java.lang.Object...)java.lang.String", "s join(java.lang.CharSequence,java.lang.CharSequence...)java.lang.String",
	}},
	{name: "java.lang.StringBuilder", kind: KindClass, interfaces: []string{"java.lang.CharSequence"}, members: []string{
		"c ()", "c (java.lang.String)", "c (int)",
		"m append(java.lang.Object)java.lang.StringBuilder", "m append(java.lang.String)java.lang.StringBuilder",
		"m append(char)java.lang.StringBuilder", "m append(int)java.lang.StringBuilder",
		"m insert(int,java.lang.String)java.lang.StringBuilder", "m reverse()java.lang.StringBuilder",
		"m length()int", "m charAt(int)char", "m setLength(int)void", "m toString()java.lang.String",
	}},
	{name: "java.lang.Number", kind: KindClass, interfaces: []string{"java.io.Serializable"}, members: []string{
		"m intValue()int", "m longValue()long", "m doubleValue()double", "m floatValue()float",
	}},
	{name: "java.lang.Integer", kind: KindClass, super: "java.lang.Number", interfaces: []string{"java.lang.Comparable<java.lang.Integer>"}, members: []string{
		"sf MAX_VALUE int", "sf MIN_VALUE int",
		"s valueOf(int)java.lang.Integer", "s parseInt(java.lang.String)int", "s toString(int)java.lang.String",
		"s compare(int,int)int", "s max(int,int)int", "s min(int,int)int", "s sum(int,int)int",
		"m compareTo(java.lang.Integer)int",
	}},
	{name: "java.lang.Long", kind: KindClass, super: "java.lang.Number", interfaces: []string{"java.lang.Comparable<java.lang.Long>"}, members: []string{
		"sf MAX_VALUE long", "sf MIN_VALUE long",
		"s valueOf(long)java.lang.Long", "s parseLong(java.lang.String)long", "s compare(long,long)int",
		"m compareTo(java.lang.Long)int",
	}},
	{name: "java.lang.Double", kind: KindClass, super: "java.lang.Number", interfaces: []string{"java.lang.Comparable<java.lang.Double>"}, members: []string{
		"sf MAX_VALUE double", "sf NaN double",
		"s valueOf(double)java.lang.Double", "s parseDouble(java.lang.String)double", "s compare(double,double)int",
		"s isNaN(double)boolean", "m compareTo(java.lang.Double)int",
	}},
	{name: "java.lang.Float", kind: KindClass, super: "java.lang.Number", members: []string{
		"s valueOf(float)java.lang.Float", "s parseFloat(java.lang.String)float",
	}},
	{name: "java.lang.Short", kind: KindClass, super: "java.lang.Number", members: []string{"s valueOf(short)java.lang.Short"}},
	{name: "java.lang.Byte", kind: KindClass, super: "java.lang.Number", members: []string{"s valueOf(byte)java.lang.Byte"}},
	{name: "java.lang.Character", kind: KindClass, members: []string{
		"s valueOf(char)java.lang.Character", "s isDigit(char)boolean", "s isLetter(char)boolean",
		"s isWhitespace(char)boolean", "s toUpperCase(char)char", "s toLowerCase(char)char", "m charValue()char",
	}},
	{name: "java.lang.Boolean", kind: KindClass, members: []string{
		"sf TRUE java.lang.Boolean", "sf FALSE java.lang.Boolean",
		"s valueOf(boolean)java.lang.Boolean", "s parseBoolean(java.lang.String)boolean", "m booleanValue()boolean",
	}},
	{name: "java.lang.Void", kind: KindClass},
	{name: "java.lang.Math", kind: KindClass, members: []string{
		"sf PI double", "sf E double",
		"s abs(int)int", "s abs(long)long", "s abs(double)double",
		"s max(int,int)int", "s max(long,long)long", "s max(double,double)double",
		"s min(int,int)int", "s min(long,long)long", "s min(double,double)double",
		"s sqrt(double)double", "s pow(double,double)double", "s floor(double)double", "s ceil(double)double",
		"s round(double)long", "s random()double",
	}},
	{name: "java.lang.System", kind: KindClass, members: []string{
		"sf out java.io.PrintStream", "sf err java.io.PrintStream", "sf in java.io.InputStream",
		"s currentTimeMillis()long", "s nanoTime()long", "s exit(int)void",
		"s getProperty(java.lang.String)java.lang.String", "s getenv(java.lang.String)java.lang.String",
		"s arraycopy(java.lang.Object,int,java.lang.Object,int,int)void",
	}},
	{name: "java.lang.Runnable", kind: KindInterface, members: []string{"m run()void"}},
	{name: "java.lang.AutoCloseable", kind: KindInterface, members: []string{"m close()void"}},
	{name: "java.lang.Iterable<T>", kind: KindInterface, members: []string{
		"m iterator()java.util.Iterator<T>", "d forEach(java.util.function.Consumer<? super T>)void",
	}},
	{name: "java.lang.Thread", kind: KindClass, interfaces: []string{"java.lang.Runnable"}, members: []string{
		"c ()", "c (java.lang.Runnable)", "m start()void", "m run()void", "m join()void", "m interrupt()void",
		"s sleep(long)void", "s currentThread()java.lang.Thread",
	}},
	{name: "java.lang.Throwable", kind: KindClass, interfaces: []string{"java.io.Serializable"}, members: []string{
		"c ()", "c (java.lang.String)", "c (java.lang.String,java.lang.Throwable)", "c (java.lang.Throwable)",
		"m getMessage()java.lang.String", "m getCause()java.lang.Throwable", "m printStackTrace()void",
		"m addSuppressed(java.lang.Throwable)void",
	}},
	{name: "java.lang.Exception", kind: KindClass, super: "java.lang.Throwable", members: []string{
		"c ()", "c (java.lang.String)", "c (java.lang.String,java.lang.Throwable)", "c (java.lang.Throwable)",
	}},
	{name: "java.lang.Error", kind: KindClass, super: "java.lang.Throwable", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.RuntimeException", kind: KindClass, super: "java.lang.Exception", members: []string{
		"c ()", "c (java.lang.String)", "c (java.lang.String,java.lang.Throwable)", "c (java.lang.Throwable)",
	}},
	{name: "java.lang.IllegalArgumentException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.IllegalStateException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.NullPointerException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.UnsupportedOperationException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.IndexOutOfBoundsException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.ArithmeticException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.ClassCastException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.InterruptedException", kind: KindClass, super: "java.lang.Exception", members: []string{"c ()", "c (java.lang.String)"}},
	{name: "java.lang.Enum<E>", kind: KindClass, interfaces: []string{"java.lang.Comparable<E>", "java.io.Serializable"}, members: []string{
		"m name()java.lang.String", "m ordinal()int", "m compareTo(E)int", "m toString()java.lang.String",
	}},
	{name: "java.lang.Record", kind: KindClass, members: []string{"c ()"}},
	{name: "java.lang.Class<T>", kind: KindClass, members: []string{
		"m getName()java.lang.String", "m getSimpleName()java.lang.String", "m isInstance(java.lang.Object)boolean",
		"m cast(java.lang.Object)T",
	}},
	{name: "java.lang.Override", kind: KindAnnotationType},
	{name: "java.lang.Deprecated", kind: KindAnnotationType},
	{name: "java.lang.FunctionalInterface", kind: KindAnnotationType},
	{name: "java.lang.SafeVarargs", kind: KindAnnotationType},
	{name: "java.lang.SuppressWarnings", kind: KindAnnotationType, members: []string{"m value()java.lang.String[]"}},

	{name: "java.io.Serializable", kind: KindInterface},
	{name: "java.io.Closeable", kind: KindInterface, interfaces: []string{"java.lang.AutoCloseable"}, members: []string{"m close()void"}},
	{name: "java.io.IOException", kind: KindClass, super: "java.lang.Exception", members: []string{
		"c ()", "c (java.lang.String)", "c (java.lang.String,java.lang.Throwable)",
	}},
	{name: "java.io.UncheckedIOException", kind: KindClass, super: "java.lang.RuntimeException", members: []string{
		"c (java.io.IOException)", "c (java.lang.String,java.io.IOException)",
	}},
	{name: "java.io.InputStream", kind: KindClass, interfaces: []string{"java.io.Closeable"}, members: []string{
		"m read()int", "m close()void",
	}},
	{name: "java.io.PrintStream", kind: KindClass, interfaces: []string{"java.io.Closeable"}, members: []string{
		"m println()void", "m println(java.lang.Object)void", "m println(java.lang.String)void",
		"m println(int)void", "m println(long)void", "m println(double)void", "m println(char)void", "m println(boolean)void",
		"m print(java.lang.Object)void", "m print(java.lang.String)void", "m print(int)void", "m print(char)void",
		"m printf(java.lang.String,java.lang.Object...)java.io.PrintStream", "m flush()void", "m close()void",
	}},
	{name: "java.io.File", kind: KindClass, members: []string{
		"c (java.lang.String)", "m getName()java.lang.String", "m getPath()java.lang.String", "m exists()boolean",
	}},

	{name: "java.util.Iterator<E>", kind: KindInterface, members: []string{"m hasNext()boolean", "m next()E", "d remove()void"}},
	{name: "java.util.Collection<E>", kind: KindInterface, interfaces: []string{"java.lang.Iterable<E>"}, members: []string{
		"m size()int", "m isEmpty()boolean", "m contains(java.lang.Object)boolean", "m add(E)boolean",
		"m remove(java.lang.Object)boolean", "m clear()void", "m addAll(java.util.Collection<? extends E>)boolean",
		"d stream()java.util.stream.Stream<E>",
	}},
	{name: "java.util.List<E>", kind: KindInterface, interfaces: []string{"java.util.Collection<E>"}, members: []string{
		"m get(int)E", "m set(int,E)E", "m add(int,E)void", "m remove(int)E", "m indexOf(java.lang.Object)int",
		"m subList(int,int)java.util.List<E>",
		"s <T> of()java.util.List<T>", "s <T> of(T...)java.util.List<T>", "s <T> copyOf(java.util.Collection<? extends T>)java.util.List<T>",
	}},
	{name: "java.util.Set<E>", kind: KindInterface, interfaces: []string{"java.util.Collection<E>"}, members: []string{
		"s <T> of(T...)java.util.Set<T>",
	}},
	{name: "java.util.Map<K,V>", kind: KindInterface, members: []string{
		"m size()int", "m isEmpty()boolean", "m get(java.lang.Object)V", "m put(K,V)V", "m remove(java.lang.Object)V",
		"m containsKey(java.lang.Object)boolean", "m containsValue(java.lang.Object)boolean",
		"m keySet()java.util.Set<K>", "m values()java.util.Collection<V>", "m clear()void",
		"d getOrDefault(java.lang.Object,V)V", "d putIfAbsent(K,V)V",
		"d computeIfAbsent(K,java.util.function.Function<? super K,? extends V>)V",
		"d forEach(java.util.function.BiConsumer<? super K,? super V>)void",
		"s <A,B> of()java.util.Map<A,B>", "s <A,B> of(A,B)java.util.Map<A,B>",
	}},
	{name: "java.util.ArrayList<E>", kind: KindClass, interfaces: []string{"java.util.List<E>"}, members: []string{
		"c ()", "c (int)", "c (java.util.Collection<? extends E>)",
		"m get(int)E", "m add(E)boolean", "m size()int",
	}},
	{name: "java.util.LinkedList<E>", kind: KindClass, interfaces: []string{"java.util.List<E>"}, members: []string{"c ()"}},
	{name: "java.util.HashMap<K,V>", kind: KindClass, interfaces: []string{"java.util.Map<K,V>"}, members: []string{"c ()", "c (int)"}},
	{name: "java.util.TreeMap<K,V>", kind: KindClass, interfaces: []string{"java.util.Map<K,V>"}, members: []string{"c ()"}},
	{name: "java.util.LinkedHashMap<K,V>", kind: KindClass, interfaces: []string{"java.util.Map<K,V>"}, members: []string{"c ()"}},
	{name: "java.util.HashSet<E>", kind: KindClass, interfaces: []string{"java.util.Set<E>"}, members: []string{"c ()", "c (java.util.Collection<? extends E>)"}},
	{name: "java.util.TreeSet<E>", kind: KindClass, interfaces: []string{"java.util.Set<E>"}, members: []string{"c ()"}},
	{name: "java.util.Optional<T>", kind: KindClass, members: []string{
		"s <U> of(U)java.util.Optional<U>", "s <U> ofNullable(U)java.util.Optional<U>", "s <U> empty()java.util.Optional<U>",
		"m isPresent()boolean", "m isEmpty()boolean", "m get()T", "m orElse(T)T",
		"m <U> map(java.util.function.Function<? super T,? extends U>)java.util.Optional<U>",
		"m ifPresent(java.util.function.Consumer<? super T>)void",
	}},
	{name: "java.util.Objects", kind: KindClass, members: []string{
		"s equals(java.lang.Object,java.lang.Object)boolean", "s hash(java.lang.Object...)int",
		"s hashCode(java.lang.Object)int", "s isNull(java.lang.Object)boolean", "s nonNull(java.lang.Object)boolean",
		"s <T> requireNonNull(T)T", "s <T> requireNonNull(T,java.lang.String)T", "s toString(java.lang.Object)java.lang.String",
	}},
	{name: "java.util.Arrays", kind: KindClass, members: []string{
		"s <T> asList(T...)java.util.List<T>", "s toString(java.lang.Object[])java.lang.String",
		"s sort(int[])void", "s fill(int[],int)void",
	}},
	{name: "java.util.Collections", kind: KindClass, members: []string{
		"s <T> emptyList()java.util.List<T>", "s <T> unmodifiableList(java.util.List<? extends T>)java.util.List<T>",
		"s <T> singletonList(T)java.util.List<T>", "s sort(java.util.List<?>)void",
	}},
	{name: "java.util.Scanner", kind: KindClass, interfaces: []string{"java.io.Closeable"}, members: []string{
		"c (java.io.InputStream)", "m nextLine()java.lang.String", "m nextInt()int", "m hasNext()boolean",
		"m hasNextLine()boolean", "m close()void",
	}},

	{name: "java.util.stream.Stream<T>", kind: KindInterface, members: []string{
		"m filter(java.util.function.Predicate<? super T>)java.util.stream.Stream<T>",
		"m <R> map(java.util.function.Function<? super T,? extends R>)java.util.stream.Stream<R>",
		"m forEach(java.util.function.Consumer<? super T>)void", "m count()long", "m toList()java.util.List<T>",
	}},

	{name: "java.util.function.Function<T,R>", kind: KindInterface, members: []string{"m apply(T)R"}},
	{name: "java.util.function.BiFunction<T,U,R>", kind: KindInterface, members: []string{"m apply(T,U)R"}},
	{name: "java.util.function.Supplier<T>", kind: KindInterface, members: []string{"m get()T"}},
	{name: "java.util.function.Consumer<T>", kind: KindInterface, members: []string{"m accept(T)void"}},
	{name: "java.util.function.BiConsumer<T,U>", kind: KindInterface, members: []string{"m accept(T,U)void"}},
	{name: "java.util.function.Predicate<T>", kind: KindInterface, members: []string{
		"m test(T)boolean", "d negate()java.util.function.Predicate<T>",
	}},
	{name: "java.util.function.UnaryOperator<T>", kind: KindInterface, interfaces: []string{"java.util.function.Function<T,T>"}},
	{name: "java.util.function.BinaryOperator<T>", kind: KindInterface, interfaces: []string{"java.util.function.BiFunction<T,T,T>"}},
	{name: "java.util.function.IntFunction<R>", kind: KindInterface, members: []string{"m apply(int)R"}},
	{name: "java.util.function.IntPredicate", kind: KindInterface, members: []string{"m test(int)boolean"}},
	{name: "java.util.function.IntUnaryOperator", kind: KindInterface, members: []string{"m applyAsInt(int)int"}},
	{name: "java.util.function.IntBinaryOperator", kind: KindInterface, members: []string{"m applyAsInt(int,int)int"}},
}

// universe holds the library symbols. It is built once and never mutated
// afterwards, so analyses share it freely.
type universe struct {
	packages map[string]*Symbol
	classes  map[string]*Symbol
}

//nolint:gochecknoglobals // Immutable shared library table.
var (
	libraryOnce sync.Once
	libraryUniv *universe
)

func library() *universe {
	libraryOnce.Do(func() {
		libraryUniv = buildUniverse(librarySpecs)
	})

	return libraryUniv
}

func buildUniverse(specs []classSpec) *universe {
	u := &universe{packages: make(map[string]*Symbol), classes: make(map[string]*Symbol)}
	vars := make(map[*Symbol]map[string]*Symbol, len(specs))

	for _, spec := range specs {
		qualified, params := splitGeneric(spec.name)
		dot := strings.LastIndexByte(qualified, '.')
		pkg := u.pkg(qualified[:dot])

		class := &Symbol{Name: qualified[dot+1:], Kind: spec.kind, Owner: pkg, External: true, Flags: syntax.FlagPublic}
		if spec.kind == KindInterface || spec.kind == KindAnnotationType {
			class.Flags |= syntax.FlagAbstract
		}

		tvars := make(map[string]*Symbol, len(params))

		var args []Type

		for _, p := range params {
			tp := &Symbol{Name: p, Kind: KindTypeParameter, Owner: class, External: true}
			class.TypeParams = append(class.TypeParams, tp)
			tvars[p] = tp
			args = append(args, &TypeVar{Sym: tp})
		}

		class.Type = &ClassType{Sym: class, Args: args}
		u.classes[qualified] = class
		vars[class] = tvars
	}

	for _, spec := range specs {
		qualified, _ := splitGeneric(spec.name)
		class := u.classes[qualified]
		tvars := vars[class]

		switch {
		case spec.super != "":
			class.Super = u.parseType(spec.super, tvars)
		case spec.kind == KindClass && qualified != objectName:
			class.Super = u.classes[objectName].Type
		}

		for _, iface := range spec.interfaces {
			class.Interfaces = append(class.Interfaces, u.parseType(iface, tvars))
		}

		for _, tp := range class.TypeParams {
			tp.Bounds = []Type{u.classes[objectName].Type}
		}

		for _, member := range spec.members {
			u.member(class, member, tvars)
		}
	}

	return u
}

func (u *universe) pkg(name string) *Symbol {
	if p, ok := u.packages[name]; ok {
		return p
	}

	p := &Symbol{Name: name, Kind: KindPackage, External: true}
	p.Type = &PackageType{Sym: p}
	u.packages[name] = p

	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		p.Owner = u.pkg(name[:dot])
	}

	return p
}

// class returns a library class by qualified name.
func (u *universe) class(qualified string) *Symbol {
	return u.classes[qualified]
}

// hasPackage reports whether name or one of its subpackages holds classes.
func (u *universe) hasPackage(name string) bool {
	_, ok := u.packages[name]

	return ok
}

func (u *universe) member(class *Symbol, spec string, classVars map[string]*Symbol) {
	code, rest, _ := strings.Cut(spec, " ")

	switch code {
	case "f", "sf":
		name, typeText, _ := strings.Cut(rest, " ")
		f := &Symbol{Name: name, Kind: KindField, Owner: class, External: true, Flags: syntax.FlagPublic}
		f.Type = u.parseType(typeText, classVars)

		if code == "sf" {
			f.Flags |= syntax.FlagStatic | syntax.FlagFinal
		}

		class.addMember(f)

		return
	}

	m := &Symbol{Kind: KindMethod, Owner: class, External: true, Flags: syntax.FlagPublic}
	tvars := classVars

	if strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		tvars = make(map[string]*Symbol, len(classVars)+1)

		for k, v := range classVars {
			tvars[k] = v
		}

		for _, p := range strings.Split(rest[1:end], ",") {
			tp := &Symbol{Name: p, Kind: KindTypeParameter, Owner: m, External: true}
			tp.Bounds = []Type{u.classes[objectName].Type}
			m.TypeParams = append(m.TypeParams, tp)
			tvars[p] = tp
		}

		rest = strings.TrimSpace(rest[end+1:])
	}

	open := strings.IndexByte(rest, '(')
	closing := strings.LastIndexByte(rest, ')')
	m.Name = strings.TrimSpace(rest[:open])

	switch code {
	case "c":
		m.Name, m.Kind = ConstructorName, KindConstructor
	case "s":
		m.Flags |= syntax.FlagStatic
	case "d":
		m.Flags |= syntax.FlagDefault
	case "m":
		if class.Kind == KindInterface || class.Kind == KindAnnotationType {
			m.Flags |= syntax.FlagAbstract
		}
	}

	mt := &MethodType{Result: VoidType{}}
	if code != "c" {
		mt.Result = u.parseType(rest[closing+1:], tvars)
	}

	for i, p := range splitTopLevel(rest[open+1 : closing]) {
		if strings.HasSuffix(p, "...") {
			p = strings.TrimSuffix(p, "...") + "[]"
			m.Flags |= syntax.FlagVarArgs
		}

		pt := u.parseType(p, tvars)
		mt.Params = append(mt.Params, pt)
		m.Params = append(m.Params, &Symbol{Name: argName(i), Kind: KindParameter, Owner: m, Type: pt, External: true})
	}

	m.Type = mt
	class.addMember(m)
}

func argName(i int) string {
	return "arg" + strconv.Itoa(i)
}

// parseType reads a type in the notation of the library table.
func (u *universe) parseType(text string, tvars map[string]*Symbol) Type {
	text = strings.TrimSpace(text)

	switch {
	case text == "":
		return nil
	case strings.HasSuffix(text, "[]"):
		return &ArrayType{Elem: u.parseType(strings.TrimSuffix(text, "[]"), tvars)}
	case text == "?":
		return &WildcardType{}
	case strings.HasPrefix(text, "? extends "):
		return &WildcardType{Bound: u.parseType(strings.TrimPrefix(text, "? extends "), tvars)}
	case strings.HasPrefix(text, "? super "):
		return &WildcardType{Bound: u.parseType(strings.TrimPrefix(text, "? super "), tvars), Super: true}
	case text == "void":
		return VoidType{}
	}

	if p, ok := primitives[text]; ok {
		return p
	}

	if tv, ok := tvars[text]; ok {
		return &TypeVar{Sym: tv}
	}

	base, args := splitGeneric(text)

	class, ok := u.classes[base]
	if !ok {
		return nil
	}

	ct := &ClassType{Sym: class}
	for _, a := range args {
		ct.Args = append(ct.Args, u.parseType(a, tvars))
	}

	return ct
}

// splitGeneric splits "a.B<X,Y<Z>>" into "a.B" and ["X", "Y<Z>"].
func splitGeneric(text string) (string, []string) {
	open := strings.IndexByte(text, '<')
	if open < 0 {
		return text, nil
	}

	return text[:open], splitTopLevel(text[open+1 : len(text)-1])
}

// splitTopLevel splits on commas outside angle brackets.
func splitTopLevel(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		parts []string
		depth int
		start int
	)

	for i, r := range text {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}

	return append(parts, strings.TrimSpace(text[start:]))
}
