package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/inkmap"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/lasso"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Step is one command of a trace script.
type Step struct {
	Op     string
	Color  domain.Color
	Points []domain.Point
}

// Script is a recorded annotation session.
type Script struct {
	WordID domain.WordID
	Image  string
	Steps  []Step
}

type rawScript struct {
	Word  string `yaml:"word"`
	Image string `yaml:"image"`
	Steps []any  `yaml:"steps"`
}

// Ops without an argument.
var bareOps = map[string]bool{
	"pencil": true, "eraser": true, "undo": true, "redo": true,
	"clear": true, "lasso": true, "freehand": true, "complete": true,
	"reset": true, "save": true, "load": true,
}

// ParseScript decodes a YAML trace script:
//
//	word: "42"
//	steps:
//	  - pencil
//	  - color: red
//	  - stroke: [[0, 0], [10, 10]]
//	  - lasso
//	  - vertex: [5, 5]
//	  - save
func ParseScript(data []byte) (*Script, error) {
	var raw rawScript
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	script := &Script{WordID: domain.WordID(raw.Word), Image: raw.Image}

	for i, item := range raw.Steps {
		step, err := parseStep(item)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		script.Steps = append(script.Steps, step)
	}
	return script, nil
}

func parseStep(item any) (Step, error) {
	switch v := item.(type) {
	case string:
		if !bareOps[v] {
			return Step{}, fmt.Errorf("unknown command %q", v)
		}
		return Step{Op: v}, nil
	case map[string]any:
		if len(v) != 1 {
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return Step{}, fmt.Errorf("expected one command, got %v", keys)
		}
		for op, arg := range v {
			return parseArgStep(op, arg)
		}
	}
	return Step{}, fmt.Errorf("unsupported step %v", item)
}

func parseArgStep(op string, arg any) (Step, error) {
	switch op {
	case "color":
		name, _ := arg.(string)
		c, err := domain.ParseColor(name)
		if err != nil {
			return Step{}, err
		}
		return Step{Op: op, Color: c}, nil
	case "stroke":
		var coords domain.Coordinates
		if err := mapstructure.WeakDecode(arg, &coords); err != nil {
			return Step{}, fmt.Errorf("invalid stroke: %w", err)
		}
		if len(coords) == 0 {
			return Step{}, errors.New("stroke needs at least one point")
		}
		return Step{Op: op, Points: coords.Points()}, nil
	case "vertex":
		var xy [2]float64
		if err := mapstructure.WeakDecode(arg, &xy); err != nil {
			return Step{}, fmt.Errorf("invalid vertex: %w", err)
		}
		return Step{Op: op, Points: []domain.Point{{X: xy[0], Y: xy[1]}}}, nil
	}
	return Step{}, fmt.Errorf("unknown command %q", op)
}

// Replay runs the script against a session. Mode switches are explicit:
// "lasso" and "freehand" toggle only when the session is in the other mode.
// A failed save stops the replay.
func Replay(ctx context.Context, script *Script, a *inkmap.Annotator, capture *lasso.Capture) error {
	for i, step := range script.Steps {
		if err := replayStep(ctx, step, a, capture); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
	}
	return nil
}

func replayStep(ctx context.Context, step Step, a *inkmap.Annotator, capture *lasso.Capture) error {
	switch step.Op {
	case "pencil":
		a.SelectPencil()
	case "eraser":
		a.SelectEraser()
	case "color":
		return a.SelectColor(step.Color)
	case "stroke":
		a.PointerDown(step.Points[0])
		for _, p := range step.Points[1:] {
			a.PointerMove(p)
		}
		a.PointerUp(ctx)
	case "undo":
		a.Undo(ctx)
	case "redo":
		a.Redo(ctx)
	case "clear":
		a.ClearAll(ctx)
	case "lasso":
		if a.Mode() != domain.ModeLasso {
			a.ToggleMode()
		}
	case "freehand":
		if a.Mode() != domain.ModeFreehand {
			a.ToggleMode()
		}
	case "vertex":
		if a.Mode() != domain.ModeLasso {
			return errors.New("vertex outside lasso mode")
		}
		capture.Add(step.Points[0])
	case "complete":
		capture.Complete()
	case "reset":
		capture.Reset()
	case "load":
		a.Load(ctx)
	case "save":
		return a.Save(ctx)
	default:
		return fmt.Errorf("unknown command %q", step.Op)
	}
	return nil
}
