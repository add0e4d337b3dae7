package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable API",
        "description": "Timetable generation engine: places weekly class meetings and projects them onto calendar dates.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Scheduler", "description": "Timetable generation runs and occurrences"}
    ],
    "paths": {
        "/timetables/{id}/generate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate timetable occurrences",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "async", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Scheduled", "schema": {"$ref": "#/definitions/GenerateScheduleEnvelope"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/EnqueueScheduleEnvelope"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Timetable not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Run already in progress or attempts exhausted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Generation disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/generation": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Latest generation run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/GenerationRunEnvelope"}},
                    "404": {"description": "No run recorded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/occurrences": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List stored occurrences",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Timetable not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/{id}/occurrences/export": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Export occurrences as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Timetable not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AbstractAssignment": {
            "type": "object",
            "properties": {
                "classId": {"type": "string"},
                "dayId": {"type": "string"},
                "periodId": {"type": "string"},
                "dayIndex": {"type": "integer"},
                "periodIndex": {"type": "integer"}
            }
        },
        "BuildWarning": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "classId": {"type": "string"},
                "dayId": {"type": "string"},
                "periodId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "GenerateScheduleResponse": {
            "type": "object",
            "properties": {
                "timetableId": {"type": "string"},
                "status": {"type": "string"},
                "attempts": {"type": "integer"},
                "restarts": {"type": "integer"},
                "assignments": {"type": "array", "items": {"$ref": "#/definitions/AbstractAssignment"}},
                "occurrenceCount": {"type": "integer"},
                "warnings": {"type": "array", "items": {"$ref": "#/definitions/BuildWarning"}}
            }
        },
        "EnqueueScheduleResponse": {
            "type": "object",
            "properties": {
                "timetableId": {"type": "string"},
                "jobId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "GenerationRun": {
            "type": "object",
            "properties": {
                "timetable_id": {"type": "string"},
                "job_id": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "RUNNING", "SCHEDULED", "EXHAUSTED", "FAILED"]},
                "attempts": {"type": "integer"},
                "restarts": {"type": "integer"},
                "occurrence_count": {"type": "integer"},
                "message": {"type": "string"},
                "started_at": {"type": "string", "format": "date-time"},
                "finished_at": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "GenerateScheduleEnvelope": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/GenerateScheduleResponse"}}
        },
        "EnqueueScheduleEnvelope": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/EnqueueScheduleResponse"}}
        },
        "GenerationRunEnvelope": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/GenerationRun"}}
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
