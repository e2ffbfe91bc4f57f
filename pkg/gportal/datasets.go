package gportal

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// datasetsPath serves the "spacecraft/sensor" search tree of the Web UI.
// This is an undocumented API and subject to change.
const datasetsPath = "/gpr/search/service/satsensor.json"

// datasetNode is one node of the raw taxonomy tree.
type datasetNode struct {
	Title    string        `json:"title"`
	Children []datasetNode `json:"children"`
	Dataset  string        `json:"dataset"`
}

// Root-level titles embed icon markup that has to be stripped.
var imgTagPattern = regexp.MustCompile(`<img[^>]*>`)

// Datasets fetches the dataset taxonomy from G-Portal. The returned tree
// maps spacecraft/sensor titles to nested maps; leaves are slices of
// dataset ID strings.
func (c *Client) Datasets(ctx context.Context) (map[string]any, error) {
	var tree []datasetNode
	if err := c.getJSON(ctx, datasetsPath, url.Values{}, &tree); err != nil {
		return nil, fmt.Errorf("failed to fetch dataset tree: %w", err)
	}
	return buildDatasets(tree, true), nil
}

func buildDatasets(nodes []datasetNode, root bool) map[string]any {
	datasets := make(map[string]any, len(nodes))

	for _, node := range nodes {
		title := node.Title
		if root {
			title = strings.TrimRight(imgTagPattern.ReplaceAllString(title, ""), " ")
		}

		if len(node.Children) > 0 {
			datasets[title] = buildDatasets(node.Children, false)
		} else {
			datasets[title] = strings.Split(node.Dataset, ",")
		}
	}

	return datasets
}
