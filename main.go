// Command spaceship renders the bundled Spaceship Earth design to
// spaceship_earth.stl in the working directory.
package main

import (
	_ "embed"
	"log"
)

//go:embed examples/spaceship.zy
var spaceshipSource string

const outputPath = "spaceship_earth.stl"

func main() {
	app := NewApp()
	result, err := app.Export(spaceshipSource, outputPath)
	for _, w := range result.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if err != nil {
		log.Fatalf("spaceship: %v", err)
	}
	for _, m := range result.Meshes {
		size := m.Size()
		log.Printf("%s: %d triangles, %.2f x %.2f x %.2f", m.PartName, len(m.Indices)/3, size[0], size[1], size[2])
	}
	log.Printf("wrote %s", outputPath)
}
