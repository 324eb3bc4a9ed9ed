// Package auth registers the Swagger document for the auth service.
package auth

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/v1/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new account",
                "description": "Creates the account in a blocked state and texts a 6-digit verification code to the phone.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Account created, code sent"},
                    "400": {"description": "Malformed request"},
                    "409": {"description": "Phone already registered"}
                }
            }
        },
        "/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Log in",
                "description": "Checks the phone and password and returns a signed bearer token. Three consecutive failures block the account for one minute.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Token and account summary"},
                    "401": {"description": "Wrong phone or password"},
                    "403": {"description": "Account blocked"},
                    "404": {"description": "No such account"}
                }
            }
        },
        "/v1/auth/verify-otp": {
            "post": {
                "tags": ["Auth"],
                "summary": "Verify a one-time code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Account verified"},
                    "401": {"description": "Code invalid or expired"},
                    "404": {"description": "No such account"}
                }
            }
        },
        "/v1/auth/send-otp": {
            "post": {
                "tags": ["Auth"],
                "summary": "Send a one-time code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Code sent"},
                    "404": {"description": "No such account"}
                }
            }
        },
        "/v1/auth/verify-phone": {
            "post": {
                "tags": ["Auth"],
                "summary": "Check a phone number",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Existence flag"}
                }
            }
        },
        "/v1/auth/forgot-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Request a password reset code",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Code sent"},
                    "404": {"description": "No such account"}
                }
            }
        },
        "/v1/auth/reset-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Reset a forgotten password",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Password replaced"},
                    "404": {"description": "No such account"}
                }
            }
        },
        "/v1/user/details": {
            "get": {
                "tags": ["User"],
                "summary": "Get account details",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Account profile"},
                    "401": {"description": "Invalid or missing token"}
                }
            }
        },
        "/v1/user/current-id": {
            "get": {
                "tags": ["User"],
                "summary": "Get current account id",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Account id"},
                    "401": {"description": "Invalid or missing token"}
                }
            }
        },
        "/v1/user/update-password": {
            "put": {
                "tags": ["User"],
                "summary": "Update password",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Password updated"},
                    "401": {"description": "Invalid or missing token"},
                    "403": {"description": "Account not verified"}
                }
            }
        },
        "/v1/user/update/{id}": {
            "put": {
                "tags": ["User"],
                "summary": "Update account details",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Updated profile"},
                    "403": {"description": "Token does not own this account"},
                    "409": {"description": "Phone already registered"}
                }
            }
        },
        "/livez": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Service is running"}
                }
            }
        },
        "/readyz": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness probe",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Service is ready"},
                    "503": {"description": "Service not ready"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "JWT access token. Format: \"Bearer {token}\"."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Epargne Authentication Service API",
	Description:      "Phone and password authentication with SMS one-time codes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
