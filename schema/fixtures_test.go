package schema

import "github.com/canvasengine/engine/internal/ids"

// newID is a small test helper producing a fresh valid identifier.
func newID() string {
	return string(ids.New())
}

func simpleDocument() Document {
	return Document{
		SchemaVersion: CurrentVersion,
		ID:            newID(),
		Name:          "Test Document",
		Artboards: []Artboard{
			{
				ID:    newID(),
				Name:  "Artboard 1",
				Frame: Rectangle{X: 0, Y: 0, Width: 400, Height: 300},
				Children: []Node{
					{
						ID:      newID(),
						Type:    KindFrame,
						Name:    "Frame A",
						Visible: true,
						Frame:   Rectangle{X: 10, Y: 10, Width: 100, Height: 100},
						Children: []Node{
							{
								ID:      newID(),
								Type:    KindText,
								Name:    "Hello",
								Visible: true,
								Frame:   Rectangle{X: 0, Y: 0, Width: 50, Height: 20},
								Text:    "hello",
							},
						},
					},
				},
			},
		},
	}
}
