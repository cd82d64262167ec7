// @title           udaan API
// @version         1.0
// @description     Media production workflow backend: events, uploads, editor assignment and notifications.
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "udaan_backend/internal/app"

func main() {
	app.Run()
}
