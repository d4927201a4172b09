package luahost

import (
	"github.com/Shopify/go-lua"
	"github.com/louisbranch/diceroll/internal/dice"
	"github.com/louisbranch/diceroll/internal/notify"
	"github.com/louisbranch/diceroll/internal/roller"
	"google.golang.org/protobuf/types/known/structpb"
)

func checkSession(state *lua.State, index int) *roller.Session {
	ud := lua.CheckUserData(state, index, sessionTypeName)
	if session, ok := ud.(*roller.Session); ok && session != nil {
		return session
	}
	lua.ArgumentError(state, index, "session expected")
	return nil
}

func checkNotifier(state *lua.State, index int) *notify.Registry {
	ud := lua.CheckUserData(state, index, notifierTypeName)
	if registry, ok := ud.(*notify.Registry); ok && registry != nil {
		return registry
	}
	lua.ArgumentError(state, index, "notifier expected")
	return nil
}

// checkExpression accepts a parsed expression or source text.
func checkExpression(state *lua.State, index int) *dice.Expression {
	if state.TypeOf(index) == lua.TypeString {
		source, _ := state.ToString(index)
		expr, err := dice.ParseExpression(source)
		if err != nil {
			lua.Errorf(state, "%s", err.Error())
			return nil
		}
		return expr
	}
	ud := lua.CheckUserData(state, index, expressionTypeName)
	if expr, ok := ud.(*dice.Expression); ok && expr != nil {
		return expr
	}
	lua.ArgumentError(state, index, "expression expected")
	return nil
}

// checkTerm accepts a parsed term or source text.
func checkTerm(state *lua.State, index int) *dice.Term {
	if state.TypeOf(index) == lua.TypeString {
		source, _ := state.ToString(index)
		term, err := dice.ParseTerm(source)
		if err != nil {
			lua.Errorf(state, "%s", err.Error())
			return nil
		}
		return term
	}
	ud := lua.CheckUserData(state, index, termTypeName)
	if term, ok := ud.(*dice.Term); ok && term != nil {
		return term
	}
	lua.ArgumentError(state, index, "term expected")
	return nil
}

// pushList pushes list as a 1-based Lua array, recursing into nested lists.
func pushList(state *lua.State, list *structpb.ListValue) {
	values := list.GetValues()
	state.CreateTable(len(values), 0)
	for i, value := range values {
		pushValue(state, value)
		state.RawSetInt(-2, i+1)
	}
}

func pushValue(state *lua.State, value *structpb.Value) {
	switch kind := value.GetKind().(type) {
	case *structpb.Value_NumberValue:
		state.PushInteger(int(kind.NumberValue))
	case *structpb.Value_ListValue:
		pushList(state, kind.ListValue)
	default:
		state.PushNil()
	}
}
