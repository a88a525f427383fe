package glb

import (
	"testing"

	"github.com/Faultbox/artglb/pkg/mesh"
)

// fakeImage returns n bytes standing in for an encoded JPEG. The encoder
// treats image data opaquely, so any content works.
func fakeImage(n int) ImageData {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	return ImageData{Data: data, MIMEType: MIMETypeJPEG}
}

// buildTestGLB encodes a quad of the given size in centimeters with an
// image payload of imageLen bytes.
func buildTestGLB(t *testing.T, widthCM, heightCM float64, imageLen int) ([]byte, *PackedBuffer, *Document) {
	t.Helper()

	g, err := mesh.QuadFromCentimeters(widthCM, heightCM)
	if err != nil {
		t.Fatalf("QuadFromCentimeters failed: %v", err)
	}
	img := fakeImage(imageLen)
	buf, err := PackBuffer(g, img)
	if err != nil {
		t.Fatalf("PackBuffer failed: %v", err)
	}
	doc, err := BuildDocument(buf, g, img.MIMEType, DefaultDocumentOptions())
	if err != nil {
		t.Fatalf("BuildDocument failed: %v", err)
	}
	data, err := Encode(doc, buf.Data)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data, buf, doc
}
