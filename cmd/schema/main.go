// Command schema writes JSON schemas for the files and payloads the
// planner accepts: the champion catalog import, node allocations and the
// change socket messages.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/dom/war-planner/internal/domain"
	"github.com/dom/war-planner/internal/service"
	"github.com/dom/war-planner/internal/websocket"
)

type document struct {
	file        string
	title       string
	description string
	value       interface{}
}

var documents = []document{
	{
		file:        "champion-catalog.schema.json",
		title:       "Champion Catalog",
		description: "File accepted by POST /api/v1/champions/import and server -import-champions.",
		value:       new([]service.CatalogEntry),
	},
	{
		file:        "node-allocations.schema.json",
		title:       "Node Allocations",
		description: "Body of PUT /api/v1/maps/{mapType}/nodes/{nodeNumber}/allocations.",
		value:       new([]domain.NodeAllocation),
	},
	{
		file:        "extra.schema.json",
		title:       "Extra Champion",
		description: "Body of POST /api/v1/wars/{warId}/extras.",
		value:       new(domain.ExtraInput),
	},
	{
		file:        "ws-message.schema.json",
		title:       "Change Socket Message",
		description: "Envelope of every message on /api/v1/ws.",
		value:       new(websocket.Message),
	},
	{
		file:        "ws-scope-changed.schema.json",
		title:       "Scope Changed",
		description: "Payload of SCOPE_CHANGED; clients re-fetch the scope on receipt.",
		value:       new(websocket.ScopeChangedPayload),
	},
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write the JSON schemas to")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, doc := range documents {
		path := filepath.Join(outDir, doc.file)
		if err := writeSchema(path, buildSchema(doc)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	}
}

func buildSchema(doc document) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(doc.value)
	schema.Title = doc.title
	schema.Description = doc.description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
