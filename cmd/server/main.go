package main

import "securelogin/internal/app"

func main() {
	app.Run()
}
