package main

import (
	"fmt"
	"os"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/artglb/pkg/glb"
)

func cmdInfo(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glbtool info <file.glb>")
		return 1
	}
	path := args[0]

	f, err := glb.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := f.Document.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	doc := f.Document

	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Length:    %d bytes (glTF %d)\n", f.Header.Length, f.Header.Version)
	fmt.Printf("Chunks:    JSON %d, BIN %d\n", len(f.JSON), len(f.BIN))
	fmt.Printf("Generator: %s\n", doc.Asset.Generator)
	for _, n := range doc.Nodes {
		fmt.Printf("Node:      %s\n", n.Name)
	}

	fmt.Println()
	fmt.Println("Accessors:")
	for i, a := range doc.Accessors {
		fmt.Printf("  %d  %-6s %-14s count %d", i, a.Type, a.ComponentType, a.Count)
		if len(a.Min) > 0 {
			fmt.Printf("  min %v max %v", a.Min, a.Max)
		}
		fmt.Println()
	}

	fmt.Println("Buffer views:")
	for i, bv := range doc.BufferViews {
		fmt.Printf("  %d  offset %-8d length %d\n", i, bv.ByteOffset, bv.ByteLength)
	}

	for i, img := range doc.Images {
		if img.BufferView == nil {
			continue
		}
		data, err := f.ViewBytes(*img.BufferView)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: image %d: %v\n", i, err)
			return 1
		}
		fmt.Printf("Image %d:   %s, %d bytes\n", i, img.MIMEType, len(data))
	}

	// Independent decode as a cross-check.
	ref, err := gltf.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: glTF decoder rejected file: %v\n", err)
		return 1
	}
	fmt.Printf("\nglTF decoder: %d mesh(es), %d accessor(s), %d image(s)\n",
		len(ref.Meshes), len(ref.Accessors), len(ref.Images))
	return 0
}
