package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Classdy API",
        "description": "Personal class schedule and attendance tracker",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "tags": [
        {"name": "Authentication", "description": "Owner access tokens"},
        {"name": "Schedules", "description": "Semester schedules and class tasks"},
        {"name": "Attendance", "description": "Daily attendance logs and derived statuses"},
        {"name": "Holidays", "description": "Non-working dates"},
        {"name": "Settings", "description": "Tracker settings and subject styling"},
        {"name": "Analytics", "description": "Summaries, heatmap and streak"},
        {"name": "Dashboard", "description": "Today at a glance"},
        {"name": "Backup", "description": "Whole-state export and import"},
        {"name": "Reports", "description": "Asynchronous CSV and PDF exports"}
    ],
    "paths": {
        "/auth/token": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Issue access token",
                "security": [],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid access key", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {"tags": ["Schedules"], "summary": "List schedules", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/Schedule"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unknown subject", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace all schedules",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/Schedule"}}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedules/resolve": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Schedule covering a date",
                "parameters": [{"in": "query", "name": "date", "type": "string", "required": true}],
                "responses": {"200": {"description": "Schedule or null", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/schedules/active": {
            "get": {"tags": ["Schedules"], "summary": "Context schedule", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/schedules/{id}": {
            "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
            "get": {"tags": ["Schedules"], "summary": "Get schedule", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Schedules"], "summary": "Update schedule", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/Schedule"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Schedules"], "summary": "Delete schedule", "responses": {"204": {"description": "Deleted"}}}
        },
        "/schedules/{id}/days/{day}/sessions/{sessionId}/tasks": {
            "put": {
                "tags": ["Schedules"],
                "summary": "Replace session tasks",
                "parameters": [
                    {"in": "path", "name": "id", "type": "string", "required": true},
                    {"in": "path", "name": "day", "type": "integer", "required": true},
                    {"in": "path", "name": "sessionId", "type": "string", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"type": "object", "properties": {"tasks": {"type": "array", "items": {"$ref": "#/definitions/Task"}}}}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List annotated logs",
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "status", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Attendance"],
                "summary": "Record attendance",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/AttendanceLog"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/attendance/evaluate": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Preview derived status",
                "parameters": [
                    {"in": "query", "name": "date", "type": "string", "required": true},
                    {"in": "query", "name": "arrival", "type": "string"},
                    {"in": "query", "name": "tag", "type": "string", "enum": ["Absent", "Holiday"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/attendance/{date}": {
            "parameters": [{"in": "path", "name": "date", "type": "string", "required": true}],
            "get": {"tags": ["Attendance"], "summary": "Get log", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Attendance"], "summary": "Delete log", "responses": {"204": {"description": "Deleted"}}}
        },
        "/holidays": {
            "get": {"tags": ["Holidays"], "summary": "List holidays", "parameters": [{"in": "query", "name": "year", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Holidays"], "summary": "Replace holidays", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/holidays/{date}": {
            "parameters": [{"in": "path", "name": "date", "type": "string", "required": true}],
            "put": {"tags": ["Holidays"], "summary": "Upsert holiday", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Holidays"], "summary": "Delete holiday", "responses": {"204": {"description": "Deleted"}}}
        },
        "/settings": {
            "get": {"tags": ["Settings"], "summary": "Get settings", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "patch": {"tags": ["Settings"], "summary": "Update settings", "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/Settings"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/subjects": {
            "get": {"tags": ["Settings"], "summary": "Subject registry", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Settings"], "summary": "Replace subject registry", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/analytics/summary": {
            "get": {"tags": ["Analytics"], "summary": "Attendance summary", "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/analytics/heatmap": {
            "get": {"tags": ["Analytics"], "summary": "Attendance heatmap", "parameters": [{"$ref": "#/parameters/period"}, {"$ref": "#/parameters/start"}, {"$ref": "#/parameters/end"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/analytics/streak": {
            "get": {"tags": ["Analytics"], "summary": "On-time streak", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/analytics/system": {
            "get": {"tags": ["Analytics"], "summary": "Instrumentation snapshot", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/dashboard": {
            "get": {"tags": ["Dashboard"], "summary": "Today's dashboard", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/backup": {
            "get": {"tags": ["Backup"], "summary": "Export backup", "parameters": [{"in": "query", "name": "download", "type": "boolean"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Backup"], "summary": "Import backup", "responses": {"204": {"description": "Imported"}, "400": {"description": "Invalid backup", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a report export",
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}],
                "responses": {"202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reports/{id}": {
            "get": {"tags": ["Reports"], "summary": "Report job status", "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report",
                "security": [],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"in": "path", "name": "token", "type": "string", "required": true}],
                "responses": {"200": {"description": "File"}, "403": {"description": "Bad signature"}, "410": {"description": "Expired"}}
            }
        }
    },
    "parameters": {
        "period": {"in": "query", "name": "period", "type": "string", "enum": ["all", "week", "month", "custom"]},
        "start": {"in": "query", "name": "start", "type": "string"},
        "end": {"in": "query", "name": "end", "type": "string"}
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "properties": {
                "accessKey": {"type": "string"}
            }
        },
        "Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "completed": {"type": "boolean"}
            }
        },
        "ClassSession": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "subject": {"type": "string"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "isOnline": {"type": "boolean"},
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/Task"}}
            }
        },
        "Schedule": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "rules": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "dayOfWeek": {"type": "integer"},
                            "classes": {"type": "array", "items": {"$ref": "#/definitions/ClassSession"}}
                        }
                    }
                }
            }
        },
        "AttendanceLog": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "arrivalTime": {"type": "string"},
                "departureTime": {"type": "string"},
                "statusTag": {"type": "string", "enum": ["Absent", "Holiday"]}
            }
        },
        "Settings": {
            "type": "object",
            "properties": {
                "gracePeriod": {"type": "integer"},
                "theme": {"type": "string"},
                "accentColor": {"type": "string"},
                "notificationsEnabled": {"type": "boolean"},
                "assistantName": {"type": "string"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["attendance", "lateness", "summary"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "period": {"type": "string", "enum": ["all", "week", "month", "custom"]},
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
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
