package server

//go:generate swag init -g internal/server/server.go -o docs/swagger

// @title Sentaku API
// @version 0.1
// @description Interactive documentation for the Sentaku selector validation API.
// @contact.name Sentaku Maintainers
// @contact.url https://github.com/raysh454/sentaku
// @BasePath /
