// Package graph renders the dependency graph of a stack as DOT or Mermaid.
package graph

import (
	"io"
	"sort"
	"strings"

	"github.com/emicklei/dot"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Format specifies the output format for the graph.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency graphs from stack resources.
type Generator struct {
	// IncludeParameters adds template parameters as dashed nodes.
	IncludeParameters bool

	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByType groups resources by AWS service.
	ClusterByType bool
}

// Generate writes the graph of resources to w. Edges point from a
// resource to what it references; GetAtt references are drawn in blue.
func (g *Generator) Generate(resources []wetwire.StackResource, parameters []string, w io.Writer) error {
	graph := g.buildGraph(resources, parameters)

	var output string
	if g.Format == FormatMermaid {
		output = dot.MermaidGraph(graph, dot.MermaidTopToBottom)
	} else {
		output = graph.String()
	}

	_, err := io.WriteString(w, output)
	return err
}

// GenerateString returns the graph as a string.
func (g *Generator) GenerateString(resources []wetwire.StackResource, parameters []string) (string, error) {
	var sb strings.Builder
	if err := g.Generate(resources, parameters, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (g *Generator) buildGraph(resources []wetwire.StackResource, parameters []string) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	graph.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})
	graph.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	known := make(map[string]bool, len(resources))
	for _, res := range resources {
		known[res.Name] = true
	}
	params := make(map[string]bool, len(parameters))
	for _, p := range parameters {
		params[p] = true
	}

	if g.ClusterByType {
		g.addClusteredNodes(graph, resources)
	} else {
		for _, res := range resources {
			addNode(graph, res)
		}
	}

	if g.IncludeParameters {
		for _, name := range parameters {
			n := graph.Node(name)
			n.Attr("shape", "ellipse")
			n.Attr("style", "dashed")
			n.Label(name)
		}
	}

	for _, res := range resources {
		getAtt := make(map[string]bool)
		for _, usage := range res.AttrRefUsages {
			getAtt[usage.Resource] = true
		}

		for _, dep := range res.Dependencies {
			if params[dep] && !g.IncludeParameters {
				continue
			}
			if !known[dep] && !params[dep] {
				continue
			}
			e := graph.Edge(graph.Node(res.Name), graph.Node(dep))
			if getAtt[dep] {
				e.Attr("color", "blue")
			}
		}
	}

	return graph
}

func addNode(parent *dot.Graph, res wetwire.StackResource) {
	n := parent.Node(res.Name)
	n.Label(res.Name + "\\n[" + res.Type + "]")
}

// addClusteredNodes groups resources by service. Services with a single
// resource are not clustered.
func (g *Generator) addClusteredNodes(graph *dot.Graph, resources []wetwire.StackResource) {
	byService := make(map[string][]wetwire.StackResource)
	for _, res := range resources {
		service := Service(res.Type)
		byService[service] = append(byService[service], res)
	}

	services := make([]string, 0, len(byService))
	for s := range byService {
		services = append(services, s)
	}
	sort.Strings(services)

	for _, service := range services {
		members := byService[service]
		if len(members) == 1 {
			addNode(graph, members[0])
			continue
		}
		// dot generates the cluster_ id; the argument is the label
		cluster := graph.Subgraph(service, dot.ClusterOption{})
		cluster.Attr("style", "rounded")
		cluster.Attr("bgcolor", "lightyellow")
		for _, res := range members {
			addNode(cluster, res)
		}
	}
}

// Service extracts the service from a CloudFormation type.
// e.g., "AWS::S3::Bucket" -> "S3"
func Service(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) == 3 {
		return parts[1]
	}
	return "Other"
}
