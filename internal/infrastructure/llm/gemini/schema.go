package gemini

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// parseResultSchemaJSON pins the extraction contract: closed enums for
// category, security level and entity type, required metadata fields.
// Responses are validated against it before anything is trusted.
const parseResultSchemaJSON = `{
	"type": "object",
	"required": ["metadata", "entities"],
	"properties": {
		"metadata": {
			"type": "object",
			"required": ["title", "category", "date", "summary", "confidenceScore", "securityLevel"],
			"properties": {
				"title": {"type": "string"},
				"category": {
					"type": "string",
					"enum": ["学籍档案", "人事档案", "科研档案", "行政档案", "会议纪要", "多媒体档案", "手稿", "教材", "新闻稿", "未分类"]
				},
				"date": {"type": "string"},
				"authors": {"type": "array", "items": {"type": "string"}},
				"department": {"type": "string"},
				"summary": {"type": "string"},
				"keywords": {"type": "array", "items": {"type": "string"}},
				"securityLevel": {"type": "string", "enum": ["公开", "内部", "机密", "绝密"]},
				"confidenceScore": {"type": "integer", "minimum": 0, "maximum": 100},
				"textContent": {"type": "string"},
				"fileProperties": {
					"type": "object",
					"properties": {
						"pageCount": {"type": "integer"},
						"duration": {"type": "string"},
						"language": {"type": "string"},
						"originalFormat": {"type": "string"}
					}
				}
			}
		},
		"entities": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "type", "context"],
				"properties": {
					"id": {"type": "string"},
					"name": {"type": "string"},
					"type": {"type": "string", "enum": ["Person", "Location", "Organization", "Event", "Concept"]},
					"context": {"type": "string"},
					"confidence": {"type": "number"}
				}
			}
		}
	}
}`

func newParseResultSchema() (*openapi3.Schema, error) {
	var schema openapi3.Schema
	if err := schema.UnmarshalJSON([]byte(parseResultSchemaJSON)); err != nil {
		return nil, fmt.Errorf("parse extraction response schema: %w", err)
	}
	return &schema, nil
}
