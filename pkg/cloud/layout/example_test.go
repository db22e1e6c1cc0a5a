package layout_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/tagcloud/pkg/cloud/geom"
	"github.com/matzehuels/tagcloud/pkg/cloud/layout"
)

func ExampleCircular() {
	l, _ := layout.NewCircular()
	l.RefreshWith(geom.Pt(400, 300))

	r, _ := l.PutNextRectangle(geom.Size{Width: 100, Height: 40})
	fmt.Println(r)

	_, err := l.PutNextRectangle(geom.Size{Width: 0, Height: 10})
	fmt.Println(errors.Is(err, layout.ErrInvalidSize), len(l.CurrentPlacements()))
	// Output:
	// [350,280 100x40]
	// true 1
}

func ExampleRows() {
	l, _ := layout.NewRows(200)
	l.RefreshWith(geom.Pt(0, 0))
	for _, s := range []geom.Size{{Width: 120, Height: 20}, {Width: 100, Height: 10}} {
		r, _ := l.PutNextRectangle(s)
		fmt.Println(r)
	}
	// Output:
	// [-100,-10 120x20]
	// [-100,10 100x10]
}
