package pipegraph

import (
	"fmt"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"brookesia/internal/job"
)

// Fixed vertex identifiers.
const (
	MechanismVertex = "mechanism"
	OutputVertex    = "output"
)

type rgb struct{ r, g, b uint8 }

var (
	caseColor      = rgb{211, 211, 211}
	drgColor       = rgb{70, 130, 180}
	saColor        = rgb{60, 179, 113}
	gaColor        = rgb{255, 165, 0}
	endpointColor  = rgb{255, 255, 255}
	boundEdgeColor = rgb{255, 140, 0}
)

func hexColor(c rgb) (string, error) {
	col, err := colors.RGB(c.r, c.g, c.b) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return col.ToHEX().String(), nil
}

// StageVertex returns the vertex identifier of flat stage i.
func StageVertex(i int) string {
	return "stage_" + strconv.Itoa(i+1)
}

// CaseVertex returns the vertex identifier of active case n, counted from 1.
func CaseVertex(n int) string {
	return "case_" + strconv.Itoa(n)
}

type builder struct {
	g      graph.Graph[string, string]
	weight int
}

func (b *builder) addVertex(id, label, shape string, fill rgb) error {
	color, err := hexColor(fill)
	if err != nil {
		return err
	}
	b.weight++
	err = b.g.AddVertex(id,
		graph.VertexWeight(b.weight),
		graph.VertexAttribute("label", label),
		graph.VertexAttribute("shape", shape),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", color),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", id)
	}
	return nil
}

func (b *builder) addEdge(from, to string, attrs ...func(*graph.EdgeProperties)) error {
	if err := b.g.AddEdge(from, to, attrs...); err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", from, to)
	}
	return nil
}

// Build assembles the pipeline graph of j.
func Build(j *job.Job) (graph.Graph[string, string], error) {
	if j == nil {
		return nil, errors.New("job is nil")
	}
	if err := j.Pipeline.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pipeline")
	}

	b := &builder{g: graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())}

	mech := j.Main.Mechanism
	if mech == "" {
		mech = "detailed mechanism"
	}
	if err := b.addVertex(MechanismVertex, mech, "box", endpointColor); err != nil {
		return nil, err
	}

	var inputs []string
	n := 0
	for _, c := range j.Cases {
		if !c.Active {
			continue
		}
		n++
		id := CaseVertex(n)
		label := fmt.Sprintf("Case %d\n%s", n, c.Kind)
		if err := b.addVertex(id, label, "note", caseColor); err != nil {
			return nil, err
		}
		inputs = append(inputs, id)
	}

	previous := MechanismVertex
	for i, stage := range j.Pipeline.Stages() {
		id := StageVertex(i)
		label, shape, fill := stageStyle(stage)
		if err := b.addVertex(id, label, shape, fill); err != nil {
			return nil, err
		}
		var edgeAttrs []func(*graph.EdgeProperties)
		if stage.Kind() == job.StageOptimization && stage.Optimization.Binding != nil && i > 0 {
			color, err := hexColor(boundEdgeColor)
			if err != nil {
				return nil, err
			}
			edgeAttrs = append(edgeAttrs,
				graph.EdgeAttribute("style", "dashed"),
				graph.EdgeAttribute("color", color),
				graph.EdgeAttribute("label", "on "+string(stage.Optimization.Binding.Family)),
			)
		}
		if err := b.addEdge(previous, id, edgeAttrs...); err != nil {
			return nil, err
		}
		if i == 0 {
			for _, in := range inputs {
				if err := b.addEdge(in, id); err != nil {
					return nil, err
				}
			}
		}
		previous = id
	}

	if err := b.addVertex(OutputVertex, "reduced mechanism", "box", endpointColor); err != nil {
		return nil, err
	}
	if err := b.addEdge(previous, OutputVertex); err != nil {
		return nil, err
	}
	if previous == MechanismVertex {
		for _, in := range inputs {
			if err := b.addEdge(in, OutputVertex); err != nil {
				return nil, err
			}
		}
	}

	return b.g, nil
}

func stageStyle(stage job.Stage) (label, shape string, fill rgb) {
	if stage.Kind() == job.StageOptimization {
		o := stage.Optimization
		label = fmt.Sprintf("GA\n%d gen x %d indiv", o.Generations, o.Individuals)
		if o.Binding != nil && o.Binding.Points > 0 {
			label += fmt.Sprintf("\n%s, %d pts", o.Binding.Family, o.Binding.Points)
		}
		return label, "hexagon", gaColor
	}
	r := stage.Reduction
	label = fmt.Sprintf("%s\neps %s, %d pts", r.Method,
		strconv.FormatFloat(r.Epsilon, 'g', -1, 64), r.Points)
	if r.Method.Family() == job.FamilyDRG {
		return label, "ellipse", drgColor
	}
	return label, "ellipse", saColor
}
