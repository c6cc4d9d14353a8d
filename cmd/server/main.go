package main

// @title APOD API
// @version 1.0
// @description Astronomy Picture of the Day: resolve, store and serve daily pictures.
// @BasePath /
func main() {
	Execute()
}
