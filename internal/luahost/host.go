// Package luahost embeds a Lua interpreter with a global "dice" table so
// scripts can parse and roll dice, synchronously or through tickets.
//
//	local s = dice.session()
//	local n = dice.notifier()
//	local result = s:roll_expression("2d6 + 3")      -- {{total,{rolls}}, {3,{}}}
//	local ticket = s:roll_term_async("4d6", n)
//	local term = n:await(ticket)                      -- {total,{rolls}}
package luahost

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"
	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/roller"
)

const (
	globalName         = "dice"
	sessionTypeName    = "dice.session"
	notifierTypeName   = "dice.notifier"
	expressionTypeName = "dice.expression"
	termTypeName       = "dice.term"
)

// Options configures a Host.
type Options struct {
	// MaxSteps caps evaluation steps per roll. Zero means unbounded.
	MaxSteps int
	// NewSession builds the session behind dice.session(). Defaults to
	// roller.NewSession.
	NewSession func() *roller.Session
}

// Host owns one Lua state and every session its scripts create.
type Host struct {
	ctx        context.Context
	state      *lua.State
	maxSteps   int
	newSession func() *roller.Session

	mu       sync.Mutex
	sessions []*roller.Session
}

// New creates a Host whose blocking calls observe ctx.
func New(ctx context.Context, opts Options) *Host {
	if ctx == nil {
		ctx = context.Background()
	}
	newSession := opts.NewSession
	if newSession == nil {
		newSession = roller.NewSession
	}
	h := &Host{
		ctx:        ctx,
		state:      lua.NewState(),
		maxSteps:   opts.MaxSteps,
		newSession: newSession,
	}
	lua.OpenLibraries(h.state)
	h.register()
	return h
}

// DoString runs a Lua chunk.
func (h *Host) DoString(source string) error {
	if err := lua.DoString(h.state, source); err != nil {
		return fmt.Errorf("run lua: %w", err)
	}
	return nil
}

// DoFile runs the Lua script at path.
func (h *Host) DoFile(path string) error {
	if err := lua.DoFile(h.state, path); err != nil {
		return fmt.Errorf("run lua %s: %w", path, err)
	}
	return nil
}

// Close waits for every asynchronous roll started by the host's sessions.
func (h *Host) Close() {
	h.mu.Lock()
	sessions := append([]*roller.Session(nil), h.sessions...)
	h.mu.Unlock()
	for _, session := range sessions {
		session.Wait()
	}
}

func (h *Host) register() {
	state := h.state

	lua.NewMetaTable(state, sessionTypeName)
	state.NewTable()
	lua.SetFunctions(state, h.sessionMethods(), 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	lua.NewMetaTable(state, notifierTypeName)
	state.NewTable()
	lua.SetFunctions(state, h.notifierMethods(), 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	for _, name := range []string{expressionTypeName, termTypeName} {
		lua.NewMetaTable(state, name)
		state.PushGoFunction(parsedToString)
		state.SetField(-2, "__tostring")
		state.Pop(1)
	}

	state.NewTable()
	lua.SetFunctions(state, h.globalFunctions(), 0)
	state.SetGlobal(globalName)
}

func (h *Host) globalFunctions() []lua.RegistryFunction {
	functions := []lua.RegistryFunction{
		{Name: "session", Function: h.newSessionValue},
		{Name: "notifier", Function: newNotifierValue},
		{Name: "parse_expression", Function: parseExpression},
		{Name: "parse_term", Function: parseTerm},
	}
	// Session methods double as dice.fn(session, ...) functions.
	return append(functions, h.sessionMethods()...)
}

func (h *Host) sessionMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "roll_expression", Function: h.rollExpression},
		{Name: "roll_term", Function: h.rollTerm},
		{Name: "roll_expression_async", Function: h.rollExpressionAsync},
		{Name: "roll_term_async", Function: h.rollTermAsync},
	}
}

func (h *Host) notifierMethods() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "await", Function: h.await},
		{Name: "poll", Function: poll},
		{Name: "pending", Function: pending},
	}
}

func (h *Host) newSessionValue(state *lua.State) int {
	session := h.newSession()
	h.mu.Lock()
	h.sessions = append(h.sessions, session)
	h.mu.Unlock()

	state.PushUserData(session)
	lua.SetMetaTableNamed(state, sessionTypeName)
	return 1
}

func newNotifierValue(state *lua.State) int {
	state.PushUserData(notify.NewRegistry(0))
	lua.SetMetaTableNamed(state, notifierTypeName)
	return 1
}

func parseExpression(state *lua.State) int {
	expr, err := dice.ParseExpression(lua.CheckString(state, 1))
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushUserData(expr)
	lua.SetMetaTableNamed(state, expressionTypeName)
	return 1
}

func parseTerm(state *lua.State) int {
	term, err := dice.ParseTerm(lua.CheckString(state, 1))
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushUserData(term)
	lua.SetMetaTableNamed(state, termTypeName)
	return 1
}

func parsedToString(state *lua.State) int {
	switch value := state.ToUserData(1).(type) {
	case *dice.Expression:
		state.PushString(value.String())
	case *dice.Term:
		state.PushString(value.String())
	default:
		state.PushString("dice value")
	}
	return 1
}

func (h *Host) rollExpression(state *lua.State) int {
	session := checkSession(state, 1)
	expr := checkExpression(state, 2)
	value, err := session.RollExpression(h.ctx, expr, h.syncKeepGoing())
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	pushList(state, value)
	return 1
}

func (h *Host) rollTerm(state *lua.State) int {
	session := checkSession(state, 1)
	term := checkTerm(state, 2)
	value, err := session.RollTerm(h.ctx, term, h.syncKeepGoing())
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	pushList(state, value)
	return 1
}

func (h *Host) rollExpressionAsync(state *lua.State) int {
	session := checkSession(state, 1)
	expr := checkExpression(state, 2)
	registry := checkNotifier(state, 3)
	ticket, err := session.RollExpressionAsync(h.ctx, expr, h.asyncKeepGoing(), registry)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushInteger(int(ticket))
	return 1
}

func (h *Host) rollTermAsync(state *lua.State) int {
	session := checkSession(state, 1)
	term := checkTerm(state, 2)
	registry := checkNotifier(state, 3)
	ticket, err := session.RollTermAsync(h.ctx, term, h.asyncKeepGoing(), registry)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	state.PushInteger(int(ticket))
	return 1
}

func (h *Host) await(state *lua.State) int {
	registry := checkNotifier(state, 1)
	ticket := notify.Ticket(lua.CheckInteger(state, 2))
	value, err := registry.Await(h.ctx, ticket)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	pushList(state, value)
	return 1
}

// poll returns the result or nil, followed by whether it was ready.
func poll(state *lua.State) int {
	registry := checkNotifier(state, 1)
	ticket := notify.Ticket(lua.CheckInteger(state, 2))
	value, ready, err := registry.Poll(ticket)
	if err != nil {
		lua.Errorf(state, "%s", err.Error())
		return 0
	}
	if !ready {
		state.PushNil()
		state.PushBoolean(false)
		return 2
	}
	pushList(state, value)
	state.PushBoolean(true)
	return 2
}

func pending(state *lua.State) int {
	registry := checkNotifier(state, 1)
	state.PushInteger(registry.Pending())
	return 1
}

func (h *Host) syncKeepGoing() dice.KeepGoing {
	if h.maxSteps > 0 {
		return dice.All(dice.UntilDone(h.ctx), dice.MaxSteps(h.maxSteps))
	}
	return dice.UntilDone(h.ctx)
}

func (h *Host) asyncKeepGoing() dice.KeepGoing {
	if h.maxSteps > 0 {
		return dice.MaxSteps(h.maxSteps)
	}
	return dice.Always()
}
