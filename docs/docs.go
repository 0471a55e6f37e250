// Package docs содержит описание API, которое отдаёт /docs.
//
// Файл повторяет аннотации обработчиков и пересобирается командой go generate
// в cmd/movie-gateway.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/ai-recommendation": {
            "post": {
                "description": "Пересылает промпт генеративной модели и возвращает её текст без изменений.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "AI"
                ],
                "summary": "AI-рекомендация",
                "parameters": [
                    {
                        "description": "Промпт",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/recommendation.Request"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Текст модели",
                        "schema": {
                            "$ref": "#/definitions/recommendation.Response"
                        }
                    },
                    "400": {
                        "description": "Пустой промпт",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "429": {
                        "description": "Слишком много запросов",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Нет ключа или ошибка модели",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "504": {
                        "description": "Модель не ответила вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/category/{type}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Content"
                ],
                "summary": "Фильмы по категории",
                "parameters": [
                    {
                        "enum": [
                            "movies",
                            "tv",
                            "anime",
                            "popular",
                            "upcoming",
                            "top_rated",
                            "now_playing"
                        ],
                        "type": "string",
                        "description": "Категория",
                        "name": "type",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "default": 1,
                        "description": "Номер страницы, 1..500",
                        "name": "page",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Страница выдачи",
                        "schema": {
                            "$ref": "#/definitions/models.Listing"
                        }
                    },
                    "400": {
                        "description": "Неизвестная категория или страница",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "TMDB недоступен",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "502": {
                        "description": "TMDB ответил ошибкой",
                        "schema": {
                            "$ref": "#/definitions/content.UpstreamError"
                        }
                    },
                    "504": {
                        "description": "TMDB не ответил вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/fetch-user": {
            "get": {
                "description": "Возвращает пользователя, которому выдан токен из cookie token.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Auth"
                ],
                "summary": "Текущий пользователь",
                "responses": {
                    "200": {
                        "description": "Пользователь",
                        "schema": {
                            "$ref": "#/definitions/response.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Токен недействителен или пользователь не найден",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "401": {
                        "description": "Нет cookie token",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/login": {
            "post": {
                "description": "Аутентифицирует пользователя по имени или почте и паролю, выставляет cookie token.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Auth"
                ],
                "summary": "Авторизация пользователя",
                "parameters": [
                    {
                        "description": "Учетные данные пользователя",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/login.Request"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Успешная авторизация",
                        "schema": {
                            "$ref": "#/definitions/response.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Неверные учетные данные",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/logout": {
            "post": {
                "description": "Удаляет cookie token.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Auth"
                ],
                "summary": "Выход",
                "responses": {
                    "200": {
                        "description": "Cookie удалена",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/movie/{id}": {
            "get": {
                "description": "Детали (/movie/{id}), видео (/movie/{id}/videos) или рекомендации (/movie/{id}/recommendations) в формате TMDB.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Content"
                ],
                "summary": "Ресурс фильма",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Идентификатор фильма TMDB",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Ответ TMDB",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Некорректный идентификатор",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Ошибка TMDB",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "504": {
                        "description": "TMDB не ответил вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/movie/{id}/recommendations": {
            "get": {
                "description": "Детали (/movie/{id}), видео (/movie/{id}/videos) или рекомендации (/movie/{id}/recommendations) в формате TMDB.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Content"
                ],
                "summary": "Ресурс фильма",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Идентификатор фильма TMDB",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Ответ TMDB",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Некорректный идентификатор",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Ошибка TMDB",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "504": {
                        "description": "TMDB не ответил вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/movie/{id}/videos": {
            "get": {
                "description": "Детали (/movie/{id}), видео (/movie/{id}/videos) или рекомендации (/movie/{id}/recommendations) в формате TMDB.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Content"
                ],
                "summary": "Ресурс фильма",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Идентификатор фильма TMDB",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Ответ TMDB",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "400": {
                        "description": "Некорректный идентификатор",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Ошибка TMDB",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "504": {
                        "description": "TMDB не ответил вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/search": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Content"
                ],
                "summary": "Поиск фильмов",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Поисковый запрос",
                        "name": "q",
                        "in": "query",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Первая страница результатов",
                        "schema": {
                            "$ref": "#/definitions/search.Response"
                        }
                    },
                    "400": {
                        "description": "Пустой запрос",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Ошибка TMDB",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "504": {
                        "description": "TMDB не ответил вовремя",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/api/signup": {
            "post": {
                "description": "Создаёт пользователя, выставляет cookie token и возвращает пользователя без хэша пароля.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Auth"
                ],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {
                        "description": "Данные нового пользователя",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/signup.Request"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Пользователь создан",
                        "schema": {
                            "$ref": "#/definitions/response.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Не заполнены поля или пользователь уже существует",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    },
                    "500": {
                        "description": "Внутренняя ошибка сервера",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "Health"
                ],
                "summary": "Проверка готовности",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/health.Status"
                        }
                    },
                    "503": {
                        "description": "База данных недоступна",
                        "schema": {
                            "$ref": "#/definitions/response.Message"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "content.UpstreamError": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "TMDB API Error"
                },
                "upstreamStatus": {
                    "type": "integer",
                    "example": 503
                }
            }
        },
        "health.Status": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "ok"
                }
            }
        },
        "login.Request": {
            "type": "object",
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "models.Listing": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "totalPages": {
                    "type": "integer"
                }
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "recommendation.Request": {
            "type": "object",
            "properties": {
                "prompt": {
                    "type": "string"
                }
            }
        },
        "recommendation.Response": {
            "type": "object",
            "properties": {
                "recommendation": {
                    "type": "string"
                }
            }
        },
        "response.Message": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "Internal Server Error"
                }
            }
        },
        "response.UserResponse": {
            "type": "object",
            "properties": {
                "message": {
                    "type": "string",
                    "example": "Logged In successfully"
                },
                "user": {
                    "$ref": "#/definitions/models.User"
                }
            }
        },
        "search.Response": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "array",
                    "items": {
                        "type": "object"
                    }
                }
            }
        },
        "signup.Request": {
            "type": "object",
            "required": [
                "email",
                "password",
                "username"
            ],
            "properties": {
                "email": {
                    "type": "string",
                    "maxLength": 254
                },
                "password": {
                    "type": "string"
                },
                "username": {
                    "type": "string",
                    "maxLength": 64
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Movie Gateway API",
	Description:      "API шлюза для каталога фильмов: учётные записи, прокси TMDB и AI-рекомендации",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
