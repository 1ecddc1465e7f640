// Package docs registers the OpenAPI description of the dashboard JSON API
// with swag so /swagger/ can serve it. Keep the template in step with the
// annotations on the handlers in internal/api/handlers/api.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/snapshot": {
            "get": {
                "description": "Current dashboard state: alerts, statistics, backend config, filter and status",
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Get dashboard snapshot",
                "responses": {
                    "200": {
                        "description": "Dashboard snapshot",
                        "schema": {"$ref": "#/definitions/SnapshotResponse"}
                    }
                }
            }
        },
        "/filters": {
            "post": {
                "description": "Replace the alert filter and run a refresh cycle. A failed refresh is reported in the snapshot error field.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Dashboard"],
                "summary": "Set alert filter",
                "parameters": [
                    {
                        "description": "Filter; omitted fields keep their defaults",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/Filter"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Refreshed snapshot",
                        "schema": {"$ref": "#/definitions/SnapshotResponse"}
                    },
                    "400": {
                        "description": "Invalid request body or filter",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        },
        "/alerts/{id}/mark-read": {
            "post": {
                "description": "Mark the alert as read on the backend, then refresh",
                "produces": ["application/json"],
                "tags": ["Alerts"],
                "summary": "Mark alert as read",
                "parameters": [
                    {"type": "string", "description": "Alert ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Action result",
                        "schema": {"$ref": "#/definitions/ActionEnvelope"}
                    },
                    "502": {
                        "description": "Backend rejected the action or is unreachable",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        },
        "/alerts/{id}/remediate": {
            "post": {
                "description": "Trigger remediation on the backend, then refresh. The actions taken are returned.",
                "produces": ["application/json"],
                "tags": ["Alerts"],
                "summary": "Remediate alert",
                "parameters": [
                    {"type": "string", "description": "Alert ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Action result",
                        "schema": {"$ref": "#/definitions/ActionEnvelope"}
                    },
                    "502": {
                        "description": "Backend rejected the action or is unreachable",
                        "schema": {"$ref": "#/definitions/ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "Alert": {
            "type": "object",
            "properties": {
                "alert_id": {"type": "string"},
                "event_id": {"type": "string"},
                "severity": {"type": "string", "enum": ["critical", "high", "medium", "low"]},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "timestamp": {"type": "number"},
                "source_ip": {"type": "string"},
                "user": {"type": "string"},
                "status": {"type": "string", "enum": ["new", "read", "remediated"]},
                "read": {"type": "boolean"},
                "remediated": {"type": "boolean"},
                "remediation_actions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Filter": {
            "type": "object",
            "properties": {
                "severity": {"type": "string"},
                "status": {"type": "string"},
                "limit": {"type": "integer", "minimum": 0, "maximum": 10000}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["idle", "loading", "ready", "error"]},
                "loading": {"type": "boolean"},
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/Alert"}},
                "total": {"type": "integer"},
                "statistics": {"type": "object"},
                "config": {"type": "object"},
                "filter": {"$ref": "#/definitions/Filter"},
                "error": {"type": "string"},
                "seq": {"type": "integer"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "ActionResponse": {
            "type": "object",
            "properties": {
                "alert_id": {"type": "string"},
                "action": {"type": "string", "enum": ["mark-read", "remediate"]},
                "actions_taken": {"type": "array", "items": {"type": "string"}},
                "snapshot": {"$ref": "#/definitions/Snapshot"}
            }
        },
        "ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "upstream_status": {"type": "integer"},
                "retryable": {"type": "boolean"},
                "details": {"type": "object"}
            }
        },
        "SnapshotResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"$ref": "#/definitions/Snapshot"}
            }
        },
        "ActionEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/ActionResponse"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"$ref": "#/definitions/ErrorDetail"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Orion AD Guardian Dashboard API",
	Description:      "JSON access to the dashboard state and alert actions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
