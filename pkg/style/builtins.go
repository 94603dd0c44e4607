package style

import (
	"fmt"
	"strings"

	"github.com/chazu/relief/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// sexpVec carries a 2- or 3-component vector between style forms.
type sexpVec struct {
	v []float64
}

func (s *sexpVec) SexpString(ps *zygo.PrintState) string {
	parts := make([]string, len(s.v))
	for i, f := range s.v {
		parts[i] = fmt.Sprintf("%g", f)
	}
	return fmt.Sprintf("(vec%d %s)", len(s.v), strings.Join(parts, " "))
}
func (s *sexpVec) Type() *zygo.RegisteredType { return nil }

// kwArgs splits an argument list into keyword and positional arguments.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	out := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := keywordName(args[i])
		if !ok {
			out.positional = append(out.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			out.kw[name] = args[i+1]
			i++
		} else {
			out.kw[name] = zygo.SexpNull
		}
	}
	return out
}

func keywordName(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec(s zygo.Sexp, n int) ([]float64, error) {
	v, ok := s.(*sexpVec)
	if !ok || len(v.v) != n {
		return nil, fmt.Errorf("expected vec%d, got %T (%s)", n, s, s.SexpString(nil))
	}
	return v.v, nil
}

func toColor(s zygo.Sexp) (scene.Color, error) {
	str, err := toString(s)
	if err != nil {
		return 0, err
	}
	return scene.ParseColor(str)
}

// form declares a style form: its keywords and what each one sets.
type form struct {
	name    string
	numbers map[string]*float64
	colors  map[string]*scene.Color
	vec2s   map[string]*[2]float64
	vec3s   map[string]*[3]float64
}

// apply sets every keyword present in args and rejects unknown ones.
func (f form) apply(args []zygo.Sexp) error {
	pa := parseArgs(args)
	if len(pa.positional) > 0 {
		return fmt.Errorf("%s: unexpected positional argument %s", f.name, pa.positional[0].SexpString(nil))
	}
	for kw, v := range pa.kw {
		var err error
		switch {
		case f.numbers[kw] != nil:
			*f.numbers[kw], err = toFloat64(v)
		case f.colors[kw] != nil:
			*f.colors[kw], err = toColor(v)
		case f.vec2s[kw] != nil:
			var vec []float64
			if vec, err = toVec(v, 2); err == nil {
				copy(f.vec2s[kw][:], vec)
			}
		case f.vec3s[kw] != nil:
			var vec []float64
			if vec, err = toVec(v, 3); err == nil {
				copy(f.vec3s[kw][:], vec)
			}
		default:
			return fmt.Errorf("%s: unknown keyword :%s", f.name, kw)
		}
		if err != nil {
			return fmt.Errorf("%s: %s: %w", f.name, kw, err)
		}
	}
	return nil
}

// install registers the style forms. Each form writes into s.
//
//	(vec2 x y) (vec3 x y z)
//	(projection :center (vec2 lon lat) :scale k :translate (vec2 x y))
//	(fit-to-data)
//	(extrude :depth d :outline z)
//	(colors :top c :side c :highlight c :outline c)
//	(opacity :top a :side a)
//	(camera :fov deg :near n :far f :position (vec3 x y z))
func install(env *zygo.Zlisp, s *Style) {
	vector := func(n int) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != n {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly %d arguments, got %d", name, n, len(args))
			}
			v := make([]float64, n)
			for i, a := range args {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: component %d: %w", name, i, err)
				}
				v[i] = f
			}
			return &sexpVec{v: v}, nil
		}
	}
	env.AddFunction("vec2", vector(2))
	env.AddFunction("vec3", vector(3))

	forms := []form{
		{
			name:    "projection",
			numbers: map[string]*float64{"scale": &s.Projection.Scale},
			vec2s: map[string]*[2]float64{
				"center":    &s.Projection.Center,
				"translate": &s.Projection.Translate,
			},
		},
		{
			name: "extrude",
			numbers: map[string]*float64{
				"depth":   &s.Depth,
				"outline": &s.OutlineElevation,
			},
		},
		{
			name: "colors",
			colors: map[string]*scene.Color{
				"top":       &s.Top,
				"side":      &s.Side,
				"highlight": &s.Highlight,
				"outline":   &s.Outline,
			},
		},
		{
			name: "opacity",
			numbers: map[string]*float64{
				"top":  &s.TopOpacity,
				"side": &s.SideOpacity,
			},
		},
		{
			name: "camera",
			numbers: map[string]*float64{
				"fov":  &s.Camera.FOV,
				"near": &s.Camera.Near,
				"far":  &s.Camera.Far,
			},
			vec3s: map[string]*[3]float64{"position": &s.Camera.Position},
		},
	}
	for _, f := range forms {
		f := f
		env.AddFunction(f.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := f.apply(args); err != nil {
				return zygo.SexpNull, err
			}
			return zygo.SexpNull, nil
		})
	}

	env.AddFunction("fit_to_data", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("fit-to-data takes no arguments")
		}
		s.FitToData = true
		return zygo.SexpNull, nil
	})
}
