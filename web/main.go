package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-phong-raytracer/web/server"
)

func main() {
	defaults := server.DefaultOptions()

	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	sceneID := flag.String("scene", defaults.SceneID, "Initial scene: built-in name or file:<name>")
	width := flag.Int("width", defaults.Width, "Image width")
	height := flag.Int("height", defaults.Height, "Image height")
	workers := flag.Int("workers", 0, "Number of render workers (0 = auto-detect CPU count)")
	static := flag.String("static", defaults.StaticDir, "Directory of the browser front end")
	flag.Parse()

	webServer, err := server.NewServer(*port, server.Options{
		SceneID:   *sceneID,
		Width:     *width,
		Height:    *height,
		Workers:   *workers,
		StaticDir: *static,
	})
	if err != nil {
		log.Printf("Error creating server: %v", err)
		os.Exit(1)
	}
	defer webServer.Close()

	log.Printf("Phong Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to orbit the scene", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
