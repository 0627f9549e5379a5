package pipegraph

import (
	"io"
	"slices"
	"sort"
	"strconv"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"brookesia/internal/job"
)

//nolint:lll //this is a template
const dotTemplate = `strict digraph pipeline {
	rankdir="LR";
{{- range .Vertices}}
	{{quote .ID}} [{{range .Attributes}}{{.Key}}={{quote .Value}}, {{end}}weight={{.Weight}}];
{{- end}}
{{- range .Edges}}
	{{quote .Source}} -> {{quote .Target}}{{if .Attributes}} [{{range $i, $a := .Attributes}}{{if $i}}, {{end}}{{$a.Key}}={{quote $a.Value}}{{end}}]{{end}};
{{- end}}
}
`

type attribute struct {
	Key   string
	Value string
}

type vertexStatement struct {
	ID         string
	Weight     int
	Attributes []attribute
}

type edgeStatement struct {
	Source     string
	Target     string
	Attributes []attribute
}

type description struct {
	Vertices []vertexStatement
	Edges    []edgeStatement
}

func sortedAttributes(attrs map[string]string) []attribute {
	out := make([]attribute, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, attribute{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Order returns the vertices of g sorted by weight, which Build assigns
// in execution order.
func Order(g graph.Graph[string, string]) ([]string, error) {
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get adjacency map")
	}
	weights := make(map[string]int, len(adjacency))
	ids := make([]string, 0, len(adjacency))
	for id := range adjacency {
		_, props, err := g.VertexWithProperties(id)
		if err != nil {
			return nil, errors.Wrap(err, "unable to get vertex properties")
		}
		weights[id] = props.Weight
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return weights[a] - weights[b] })
	return ids, nil
}

func describe(g graph.Graph[string, string]) (description, error) {
	var desc description
	order, err := Order(g)
	if err != nil {
		return desc, err
	}
	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	for _, id := range order {
		_, props, err := g.VertexWithProperties(id)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}
		desc.Vertices = append(desc.Vertices, vertexStatement{
			ID:         id,
			Weight:     props.Weight,
			Attributes: sortedAttributes(props.Attributes),
		})

		targets := make([]string, 0, len(adjacency[id]))
		for target := range adjacency[id] {
			targets = append(targets, target)
		}
		slices.SortFunc(targets, func(a, b string) int { return rank[a] - rank[b] })
		for _, target := range targets {
			edge := adjacency[id][target]
			desc.Edges = append(desc.Edges, edgeStatement{
				Source:     id,
				Target:     target,
				Attributes: sortedAttributes(edge.Properties.Attributes),
			})
		}
	}
	return desc, nil
}

// Render writes g in DOT format.
func Render(w io.Writer, g graph.Graph[string, string]) error {
	desc, err := describe(g)
	if err != nil {
		return err
	}
	tpl, err := template.New("dotTemplate").Funcs(template.FuncMap{"quote": strconv.Quote}).Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}
	if err := tpl.Execute(w, desc); err != nil {
		return errors.Wrap(err, "unable to execute template")
	}
	return nil
}

// WriteDOT builds the pipeline graph of j and writes it in DOT format.
func WriteDOT(w io.Writer, j *job.Job) error {
	g, err := Build(j)
	if err != nil {
		return err
	}
	return Render(w, g)
}
