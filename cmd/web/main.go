package main

import "jobza_backend/internal/app"

func main() {
	app.Run()
}
