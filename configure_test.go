package conf_test

import (
	"errors"
	"testing"

	conf "github.com/0xalexb/hjarta-conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	size  int
	label string
}

func widgetFactory() *conf.Callable {
	return conf.MustFunc("widget",
		func(args conf.Args) (any, error) {
			return widget{size: args["size"].(int), label: args["label"].(string)}, nil
		},
		conf.WithParams(
			conf.NewParam("size").WithDefault(1),
			conf.NewParam("label").WithDefault("plain"),
		),
	)
}

func TestConfigure_Precedence_ConfigWinsOverExplicitDefaults(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"size": 8})

	result, err := root.Configure(widgetFactory(), conf.Args{"size": 3, "label": "given"})

	require.NoError(t, err)
	assert.Equal(t, widget{size: 8, label: "given"}, result)
}

func TestConfigure_DeclaredDefaultFallback(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{})

	result, err := root.Configure(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Equal(t, widget{size: 1, label: "plain"}, result)
}

func TestConfigure_RequiredDeclaredDefault(t *testing.T) {
	t.Parallel()

	factory := conf.MustFunc("strict",
		func(args conf.Args) (any, error) {
			return args["size"], nil
		},
		conf.WithParams(conf.NewParam("size").WithDefault(conf.Required)),
	)

	_, err := conf.New(map[string]any{}).Configure(factory, nil)
	require.ErrorIs(t, err, conf.ErrMissingParameter)
	assert.Contains(t, err.Error(), "size")

	result, err := conf.New(map[string]any{"size": 5}).Configure(factory, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result)
}

func TestConfigure_RequiredExplicitDefault(t *testing.T) {
	t.Parallel()

	_, err := conf.New(map[string]any{}).Configure(widgetFactory(), conf.Args{"size": conf.Required})

	require.ErrorIs(t, err, conf.ErrMissingParameter)

	result, err := conf.New(map[string]any{"size": 7}).Configure(widgetFactory(), conf.Args{"size": conf.Required})
	require.NoError(t, err)
	assert.Equal(t, widget{size: 7, label: "plain"}, result)
}

func TestConfigure_MissingParameterWithoutAnyDefault(t *testing.T) {
	t.Parallel()

	factory := conf.MustFunc("strict",
		func(args conf.Args) (any, error) {
			return args["size"], nil
		},
		conf.WithParams(conf.NewParam("size")),
	)

	_, err := conf.Empty().Child("x").Configure(factory, nil)

	require.ErrorIs(t, err, conf.ErrMissingParameter)
	assert.Contains(t, err.Error(), "x")
}

func TestConfigure_MissingCallable(t *testing.T) {
	t.Parallel()

	_, err := conf.New(map[string]any{"size": 1}).Configure(nil, nil)

	require.ErrorIs(t, err, conf.ErrMissingCallable)
}

func TestConfigure_ScalarPassThrough(t *testing.T) {
	t.Parallel()

	result, err := conf.New("just a string").Configure(nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "just a string", result)
}

func TestConfigure_ScalarWithCallableIsTypeMismatch(t *testing.T) {
	t.Parallel()

	_, err := conf.New("scalar").Configure(widgetFactory(), nil)

	require.ErrorIs(t, err, conf.ErrTypeMismatch)
}

func TestConfigure_ExplicitNullYieldsNil(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"widget": nil})

	result, err := root.Child("widget").Configure(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestConfigure_CodeOnlyParameterIgnoresConfig(t *testing.T) {
	t.Parallel()

	factory := conf.MustFunc("sink",
		func(args conf.Args) (any, error) {
			return args["writer"], nil
		},
		conf.WithParams(conf.NewParam("writer").CodeOnly().WithDefault("code-default")),
	)

	root := conf.New(map[string]any{"writer": "from-config"})

	result, err := root.Configure(factory, nil)

	require.NoError(t, err)
	assert.Equal(t, "code-default", result)
	// The config key was never consumed.
	assert.Equal(t, []string{"writer"}, root.UnusedKeys())
}

func TestConfigure_UnknownExplicitDefault(t *testing.T) {
	t.Parallel()

	_, err := conf.New(map[string]any{}).Configure(widgetFactory(), conf.Args{"bogus": 1})

	require.ErrorIs(t, err, conf.ErrUnknownParameter)
	assert.Contains(t, err.Error(), "bogus")
}

func TestConfigure_CatchAllReceivesRemainingKeys(t *testing.T) {
	t.Parallel()

	factory := conf.MustFunc("sponge",
		func(args conf.Args) (any, error) {
			return args, nil
		},
		conf.WithParams(conf.NewParam("size").WithDefault(1)),
		conf.WithCatchAll(),
	)

	root := conf.New(map[string]any{"size": 2, "extra": "kept", "more": true})

	result, err := root.Configure(factory, conf.Args{"passed": "through"})

	require.NoError(t, err)
	assert.Equal(t, conf.Args{"size": 2, "extra": "kept", "more": true, "passed": "through"}, result)
	assert.Empty(t, root.UnusedKeys())
}

func TestConfigure_InvocationFailureWrappedWithContext(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	factory := conf.MustFunc("exploding",
		func(conf.Args) (any, error) {
			return nil, boom
		},
		conf.WithParams(conf.NewParam("size").WithDefault(4)),
	)

	root := conf.New(map[string]any{"widget": map[string]any{}})

	_, err := root.Child("widget").Configure(factory, nil)

	require.ErrorIs(t, err, boom)

	var confErr *conf.Error

	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "widget", confErr.Path)
	assert.Equal(t, conf.Args{"size": 4}, confErr.Args)
	assert.Contains(t, err.Error(), "configuring widget")
	assert.Contains(t, err.Error(), "size=4")
}

func TestConfigure_NestedFailureKeepsInnerPath(t *testing.T) {
	t.Parallel()

	inner := conf.MustFunc("inner",
		func(args conf.Args) (any, error) {
			return args["value"], nil
		},
		conf.WithParams(conf.NewParam("value")),
	)

	outer := conf.MustConfigurable("outer",
		func(cfg *conf.Node, _ conf.Args) (any, error) {
			return cfg.Child("child").Configure(inner, nil)
		},
	)

	root := conf.New(map[string]any{
		"outer": map[string]any{"child": map[string]any{}},
	})

	_, err := root.Child("outer").Configure(outer, nil)

	require.ErrorIs(t, err, conf.ErrMissingParameter)

	var confErr *conf.Error

	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "outer.child", confErr.Path)
}

func TestMaybeConfigure_AbsentYieldsNil(t *testing.T) {
	t.Parallel()

	invoked := false
	factory := conf.MustFunc("never",
		func(conf.Args) (any, error) {
			invoked = true

			return nil, nil
		},
	)

	root := conf.New(map[string]any{})

	result, err := root.Child("x").MaybeConfigure(factory, nil)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.False(t, invoked)
}

func TestMaybeConfigure_PresentBehavesLikeConfigure(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"widget": map[string]any{"size": 6}})

	result, err := root.Child("widget").MaybeConfigure(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Equal(t, widget{size: 6, label: "plain"}, result)
}

func TestConfigureList_OrderPreserved(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{
		"widgets": []any{
			map[string]any{"size": 1},
			map[string]any{"size": 2},
			map[string]any{"size": 3},
		},
	})

	results, err := root.Child("widgets").ConfigureList(widgetFactory(), conf.Args{"label": "nth"})

	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, widget{size: i + 1, label: "nth"}, result)
	}
}

func TestConfigureList_FailureStopsAtFailingItem(t *testing.T) {
	t.Parallel()

	var constructed []int

	factory := conf.MustFunc("counting",
		func(args conf.Args) (any, error) {
			size := args["size"].(int)
			if size == 2 {
				return nil, errors.New("bad item")
			}

			constructed = append(constructed, size)

			return size, nil
		},
		conf.WithParams(conf.NewParam("size")),
	)

	root := conf.New(map[string]any{
		"widgets": []any{
			map[string]any{"size": 1},
			map[string]any{"size": 2},
			map[string]any{"size": 3},
		},
	})

	_, err := root.Child("widgets").ConfigureList(factory, nil)

	require.Error(t, err)

	var confErr *conf.Error

	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "widgets[1]", confErr.Path)
	// Item 1 was constructed before the failure; item 3 never was.
	assert.Equal(t, []int{1}, constructed)
}

func TestConfigureList_AbsentYieldsEmptySlice(t *testing.T) {
	t.Parallel()

	results, err := conf.New(map[string]any{}).Child("widgets").ConfigureList(widgetFactory(), nil)

	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestConfigureList_ExplicitNullYieldsNil(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"widgets": nil})

	results, err := root.Child("widgets").ConfigureList(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestConfigureList_NonSequenceIsTypeMismatch(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"widgets": map[string]any{"size": 1}})

	_, err := root.Child("widgets").ConfigureList(widgetFactory(), nil)

	require.ErrorIs(t, err, conf.ErrTypeMismatch)
}

func TestConfigure_ClassKeyOverridesCallable(t *testing.T) {
	t.Parallel()

	registry := conf.NewRegistry()
	registry.MustRegister(conf.MustFunc("override",
		func(args conf.Args) (any, error) {
			return map[string]any{"factory": "override", "x": args["x"]}, nil
		},
		conf.WithParams(conf.NewParam("x").WithDefault(0)),
	))

	defaultFactory := conf.MustFunc("default",
		func(args conf.Args) (any, error) {
			return map[string]any{"factory": "default", "x": args["x"]}, nil
		},
		conf.WithParams(conf.NewParam("x").WithDefault(0)),
	)

	root := conf.New(
		map[string]any{"class": "override", "x": 1},
		conf.WithRegistry(registry),
	)

	result, err := root.Configure(defaultFactory, conf.Args{"x": 0})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"factory": "override", "x": 1}, result)
	assert.Empty(t, root.UnusedKeys(), "class key counts as consumed")
}

func TestConfigure_ClassKeyUnknownFactory(t *testing.T) {
	t.Parallel()

	root := conf.New(
		map[string]any{"class": "nowhere"},
		conf.WithRegistry(conf.NewRegistry()),
	)

	_, err := root.Configure(nil, nil)

	require.ErrorIs(t, err, conf.ErrUnknownFactory)
}

func TestConfigure_ClassKeyWithoutRegistry(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{"class": "anything"})

	_, err := root.Configure(widgetFactory(), nil)

	require.ErrorIs(t, err, conf.ErrMissingCallable)
}

func TestConfigure_ClassKeyNotAString(t *testing.T) {
	t.Parallel()

	root := conf.New(
		map[string]any{"class": 12},
		conf.WithRegistry(conf.NewRegistry()),
	)

	_, err := root.Configure(nil, nil)

	require.ErrorIs(t, err, conf.ErrTypeMismatch)
}

func TestBind_DefersInvocation(t *testing.T) {
	t.Parallel()

	invocations := 0
	factory := conf.MustFunc("counter",
		func(args conf.Args) (any, error) {
			invocations++

			return args["size"], nil
		},
		conf.WithParams(conf.NewParam("size").WithDefault(1)),
	)

	root := conf.New(map[string]any{"size": 9})

	thunk, err := root.Bind(factory, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, invocations, "bind must not invoke")

	result, err := thunk()
	require.NoError(t, err)
	assert.Equal(t, 9, result)
	assert.Equal(t, 1, invocations)

	// The thunk captured the merged arguments; calling again reuses them.
	result, err = thunk()
	require.NoError(t, err)
	assert.Equal(t, 9, result)
	assert.Equal(t, 2, invocations)
}

func TestBind_ResolutionFailuresSurfaceImmediately(t *testing.T) {
	t.Parallel()

	factory := conf.MustFunc("strict",
		func(args conf.Args) (any, error) {
			return args["size"], nil
		},
		conf.WithParams(conf.NewParam("size")),
	)

	thunk, err := conf.New(map[string]any{}).Bind(factory, nil)

	require.ErrorIs(t, err, conf.ErrMissingParameter)
	assert.Nil(t, thunk)
}

func TestMaybeBind_AbsentYieldsNilThunk(t *testing.T) {
	t.Parallel()

	root := conf.New(map[string]any{})

	thunk, err := root.Child("x").MaybeBind(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Nil(t, thunk)
}

func TestConfigure_OverrideHookConsultedBeforeRawValue(t *testing.T) {
	t.Parallel()

	root := conf.New(
		map[string]any{"widget": map[string]any{"size": 1}},
		conf.WithOverrides(staticOverrides{"widget": map[string]any{"size": 5}}),
	)

	result, err := root.Child("widget").Configure(widgetFactory(), nil)

	require.NoError(t, err)
	assert.Equal(t, widget{size: 5, label: "plain"}, result)
}
