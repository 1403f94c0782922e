package synth_test

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/eboody/statum/internal/codefmt"
	"github.com/eboody/statum/internal/statum/parse"
	"github.com/eboody/statum/internal/statum/registry"
	"github.com/eboody/statum/internal/statum/synth"
	"github.com/eboody/statum/internal/statum/validate"
)

const header = "//go:build statum\n\npackage p\n\n"

// generate runs the declarations of src through the parser, the validator
// and the synthesizer. It returns the generated code as a formatted file
// followed by extra, which stands for the user code kept in the generated
// file.
func generate(t *testing.T, src, extra string) string {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "f0.go", src, parser.ParseComments)
	require.NoError(t, err)
	pkg := &packages.Package{Name: "p", PkgPath: "example.com/p", Fset: fset, Syntax: []*ast.File{file}}

	p, err := parse.New(pkg, nil)
	require.NoError(t, err)
	decls, err := p.Parse()
	require.NoError(t, err)

	reg := registry.New()
	for _, state := range decls.States {
		reg.StoreState(state)
	}
	for _, machine := range decls.Machines {
		reg.StoreMachine(machine)
	}
	res, err := validate.New(p, reg).Validate(decls)
	require.NoError(t, err)

	var body bytes.Buffer
	w := codefmt.NewWriter(&body, pkg, codefmt.NewNS(file))
	synth.New(w, res).Write()

	var code bytes.Buffer
	fmt.Fprintf(&code, "package p\n\n")
	for name, imp := range w.Imports() {
		fmt.Fprintf(&code, "import %s %q\n", name, imp.Path)
	}
	code.Write(body.Bytes())
	code.WriteString(extra)

	formatted, err := format.Source(code.Bytes())
	require.NoError(t, err, code.String())
	return string(formatted)
}

// typeErrors type-checks generated code without the runtime package and
// returns every error.
func typeErrors(t *testing.T, code string) []string {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "gen.go", code, 0)
	require.NoError(t, err)

	var errs []string
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(err error) { errs = append(errs, err.Error()) },
	}
	_, _ = conf.Check("example.com/p", fset, []*ast.File{file}, nil)
	return errs
}

func typeCheck(t *testing.T, code string) {
	t.Helper()
	require.Empty(t, typeErrors(t, code), code)
}

// ss: standardize space
func ss(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

const taskDecls = `
// TaskState is the lifecycle of a task.
//
//statum:state derive=Stringer,JSON
type TaskState interface {
	Draft()
	// InProgress has the progress.
	InProgress(Progress)
	Done()
}

//statum:machine derive=Stringer,JSON
type TaskMachine[TaskState any] struct {
	Name     string ` + "`json:\"name\"`" + `
	Priority int
	secret   string
}
`

const task = header + taskDecls

const taskUserCode = `
type Progress struct{ Percent int }

func Start(m TaskMachine[Draft], p Progress) TaskMachine[InProgress] {
	return TaskMachineToInProgress(m, p)
}

func Finish(m TaskMachine[InProgress]) (TaskMachine[Done], error) {
	return TaskMachineToDone(m), nil
}

var (
	built    = NewTaskMachineDraft().Name("x").Priority(1).secret("s").Build()
	started  = Start(built, Progress{50})
	_, _     = Finish(started)
	_ string = started.State().Data().String()
)

func (p Progress) String() string { return "" }
`

const taskTransitions = `
//statum:transition
func Start(m TaskMachine[Draft], p Progress) TaskMachine[InProgress] {
	return TaskMachineToInProgress(m, p)
}

//statum:transition
func Finish(m TaskMachine[InProgress]) (TaskMachine[Done], error) {
	return TaskMachineToDone(m), nil
}
`

func TestState(t *testing.T) {
	code := generate(t, task, taskUserCode)

	assert.Contains(t, ss(code), ss(`
// TaskState is the lifecycle of a task.
type TaskState interface {
	StateName() string
	isTaskState()
}`))
	assert.Contains(t, ss(code), ss(`
type TaskStateRequiresPayload interface {
	TaskState
	requiresTaskStatePayload()
}`))
	assert.Contains(t, ss(code), ss(`type UninitializedTaskState struct{}`))
	assert.Contains(t, ss(code), ss(`func (UninitializedTaskState) StateName() string { return "Uninitialized" }`))
	assert.Contains(t, ss(code), ss(`
// InProgress has the progress.
type InProgress struct{ data Progress }`))
	assert.Contains(t, ss(code), ss(`func (InProgress) requiresTaskStatePayload() {}`))
	assert.Contains(t, ss(code), ss(`func (Draft) noTaskStatePayload() {}`))
	assert.Contains(t, ss(code), ss(`func (Draft) MarshalJSON() ([]byte, error) { return json.Marshal("Draft") }`))

	// Marker types are in declared order.
	draft := strings.Index(code, "type Draft struct")
	inProgress := strings.Index(code, "type InProgress struct")
	done := strings.Index(code, "type Done struct")
	assert.True(t, 0 < draft && draft < inProgress && inProgress < done)
}

func TestMachine(t *testing.T) {
	code := generate(t, task+taskTransitions, taskUserCode)

	assert.Contains(t, ss(code), ss(`
type TaskMachine[S TaskState] struct {
	Name     string `+"`json:\"name\"`"+`
	Priority int
	secret   string
	stateData S
}`))
	assert.Contains(t, ss(code), ss(`type UninitializedTaskMachine = TaskMachine[UninitializedTaskState]`))
	assert.Contains(t, ss(code), ss(`func (m TaskMachine[S]) State() S { return m.stateData }`))
	assert.Contains(t, ss(code), ss(`
func (m TaskMachine[S]) IsDone() bool {
	_, ok := any(m.stateData).(Done)
	return ok
}`))
	assert.Contains(t, ss(code), ss(`
func NewTaskMachineInProgress() TaskMachineInProgressNeedsName { return TaskMachineInProgressNeedsName{} }`))
	assert.Contains(t, ss(code), ss(`
func (b TaskMachineInProgressNeedsData) Data(v Progress) TaskMachineInProgressReady {
	b.m.stateData = InProgress{v}
	return TaskMachineInProgressReady{b.m}
}`))
	assert.Contains(t, ss(code), ss("F0 string `json:\"name\"`"))
	assert.Contains(t, ss(code), ss("F1 int `json:\"Priority\"`"))
	assert.NotContains(t, code, "F2", "unexported fields are not encoded")

	typeCheck(t, code)
}

func TestMachineIncompleteBuilder(t *testing.T) {
	code := generate(t, task+taskTransitions, taskUserCode)
	code = strings.Replace(code, `NewTaskMachineDraft().Name("x").Priority(1).secret("s").Build()`, `NewTaskMachineDraft().Name("x").secret("s").Build()`, 1)

	errs := typeErrors(t, code)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "TaskMachineDraftNeedsPriority has no field or method secret")
}

func TestTransitions(t *testing.T) {
	code := generate(t, task+taskTransitions+`
//statum:transition
func Reopen(m TaskMachine[Done]) *TaskMachine[Draft] { return nil }

//statum:transition
func Restart(m TaskMachine[InProgress]) TaskMachine[Draft] { return TaskMachineToDraft(m) }
`, taskUserCode)

	assert.Contains(t, ss(code), ss(`
// TaskMachineTransitionToDraft is implemented by the states of TaskMachine that can transition to Draft: Done, InProgress.
type TaskMachineTransitionToDraft interface {
	TaskState
	taskMachineTransitionToDraft()
}`))
	assert.Contains(t, ss(code), ss(`
type TaskMachineTransitionWithInProgress interface {
	TaskState
	taskMachineTransitionToInProgress()
}

func (Draft) taskMachineTransitionToInProgress() {}`))
	assert.Contains(t, ss(code), ss(`
func TaskMachineToInProgress[S TaskMachineTransitionWithInProgress](m TaskMachine[S], data Progress) TaskMachine[InProgress] {
	return TaskMachine[InProgress]{Name: m.Name, Priority: m.Priority, secret: m.secret, stateData: InProgress{data}}
}`))
	assert.Contains(t, ss(code), ss(`
func TaskMachineToDone[S TaskMachineTransitionToDone](m TaskMachine[S]) TaskMachine[Done] {`))

	typeCheck(t, code+`
func Reopen(m TaskMachine[Done]) *TaskMachine[Draft] { return nil }
func Restart(m TaskMachine[InProgress]) TaskMachine[Draft] { return TaskMachineToDraft(m) }
`)
}

func TestTransitionRejectsOtherSource(t *testing.T) {
	code := generate(t, task+taskTransitions, taskUserCode+`
var _ = TaskMachineToDone(built)
`)

	errs := typeErrors(t, code)
	require.Len(t, errs, 1, "Draft cannot transition to Done")
	assert.Contains(t, errs[0], "does not satisfy TaskMachineTransitionToDone")
}

func TestGenericMachine(t *testing.T) {
	code := generate(t, header+`
//statum:state
type CacheState interface {
	Cold()
	Warm(int)
}

//statum:machine
type Cache[CacheState any, K comparable, V any] struct {
	Entries map[K]V
}

//statum:transition
func Fill[K comparable, V any](c Cache[Cold, K, V], n int) Cache[Warm, K, V] { return CacheToWarm(c, n) }
`, `
var warm = CacheToWarm(NewCacheCold[string, int]().Entries(nil).Build(), 3)
var _ int = warm.State().Data()
`)

	assert.Contains(t, ss(code), ss(`type Cache[S CacheState, K comparable, V any] struct {`))
	assert.NotContains(t, code, "UninitializedCache =")
	assert.Contains(t, ss(code), ss(`func NewCacheCold[K comparable, V any]() CacheColdNeedsEntries[K, V] {`))
	assert.Contains(t, ss(code), ss(`func CacheToWarm[S CacheTransitionWithWarm, K comparable, V any](m Cache[S, K, V], data int) Cache[Warm, K, V] {`))

	typeCheck(t, code)
}

func TestUnexported(t *testing.T) {
	code := generate(t, header+`
//statum:state
type doorState interface {
	open()
	closed()
}

//statum:machine
type door[doorState any] struct{ m int }
`, `
var _ = newDoorOpen().m(1).Build()
`)

	assert.Contains(t, ss(code), ss(`type uninitializedDoorState struct{}`))
	assert.Contains(t, ss(code), ss(`type uninitializedDoor = door[uninitializedDoorState]`))
	assert.Contains(t, ss(code), ss(`type doorOpenNeedsM struct{ m2 door[open] }`), "the stage field does not collide with the setter")

	typeCheck(t, code)
}

func TestValidators(t *testing.T) {
	code := generate(t, header+`import "context"
`+taskDecls+`
//statum:validators TaskMachine
type Row struct{ Status string }

func (r Row) IsDraft() error { return nil }
func (r *Row) IsInProgress(ctx context.Context, name string, priority int, secret string) (Progress, error) {
	return Progress{}, nil
}
func (r Row) IsDone() error { return nil }
`, "")

	assert.Contains(t, ss(code), ss(`
type TaskMachineSuperState interface {
	StateName() string
	IsDraft() bool
	IsInProgress() bool
	IsDone() bool
	taskMachineSuperState()
}

func (TaskMachine[S]) taskMachineSuperState() {}`))
	assert.Contains(t, ss(code), ss(`
func (r *Row) ToTaskMachine(ctx context.Context, name string, priority int, secret string) (TaskMachineSuperState, error) {
	if err := r.IsDraft(); err == nil {
		return NewTaskMachineDraft().Name(name).Priority(priority).secret(secret).Build(), nil
	}
	if data, err := r.IsInProgress(ctx, name, priority, secret); err == nil {
		return NewTaskMachineInProgress().Name(name).Priority(priority).secret(secret).Data(data).Build(), nil
	}
	if err := r.IsDone(); err == nil {
		return NewTaskMachineDone().Name(name).Priority(priority).secret(secret).Build(), nil
	}
	return nil, statum.ErrInvalidState
}`))
	assert.Contains(t, ss(code), ss(`
func (r *Row) TryToDraft(name string, priority int, secret string) (TaskMachine[Draft], error) {
	err := r.IsDraft()
	if err != nil {
		return TaskMachine[Draft]{}, statum.Reject(err)
	}
	return NewTaskMachineDraft().Name(name).Priority(priority).secret(secret).Build(), nil
}`))
	assert.Contains(t, ss(code), ss(`
func TaskMachinesFromRow(ctx context.Context, rows []Row, name string, priority int, secret string) []statum.Result[TaskMachineSuperState] {
	return statum.BatchContext(ctx, rows, func(ctx context.Context, r Row) (TaskMachineSuperState, error) {
		return r.ToTaskMachine(ctx, name, priority, secret)
	})
}`))
}

func TestValidatorsSync(t *testing.T) {
	code := generate(t, header+`
//statum:state
type S interface{ A() }

//statum:machine
type M[S any] struct{}

//statum:validators M
type D int

func (D) IsA() error { return nil }

//statum:validators M
type E int

func (E) IsA() error { return nil }
`, "")

	assert.Equal(t, 1, strings.Count(code, "type MSuperState interface"), "the super state is written once per machine")
	assert.Contains(t, ss(code), ss(`
func MsFromD(ds []D) []statum.Result[MSuperState] {
	return statum.Batch(ds, func(d D) (MSuperState, error) {
		return d.ToM()
	})
}`))
	assert.NotContains(t, code, "context")
}

func TestValidatorsNonASCIIType(t *testing.T) {
	code := generate(t, header+`
//statum:state
type S interface{ A() }

//statum:machine
type M[S any] struct{}

//statum:validators M
type Élan int

func (Élan) IsA() error { return nil }
`, "")

	assert.Contains(t, ss(code), ss(`func (é Élan) ToM() (MSuperState, error) {`))
	assert.Contains(t, ss(code), ss(`func MsFromÉlan(élans []Élan) []statum.Result[MSuperState] {`))
}
