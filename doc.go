/*
Package inkmap annotates regions of a reference image and binds them to words.

An Annotator is one session for one word. It runs in one of two mutually
exclusive modes:

  - Freehand: pointer gestures become strokes through a pencil or an eraser.
    Every commit is recorded in a bounded undo history. On save the strokes
    are stitched, greedily by nearest endpoint, into one continuous path.
  - Lasso: a polygon capture collaborator supplies an ordered vertex list and
    a cropped preview of the enclosed region.

Either source is persisted as a flat list of [x, y] pairs through a
ports.CoordinateStore keyed by the word id. Loading always rehydrates into the
lasso vertex list; discrete strokes are not reconstructed.

# Usage

	ctx := context.Background()
	a, err := inkmap.New("42", inkmap.WithStore(memory.NewStore()))
	if err != nil {
		log.Fatal(err)
	}

	a.SelectPencil()
	a.PointerDown(domain.Point{X: 0, Y: 0})
	a.PointerMove(domain.Point{X: 10, Y: 10})
	a.PointerUp(ctx)

	if err := a.Save(ctx); err != nil {
		log.Fatal(err)
	}

Callbacks registered through WithHooks run outside the session lock, so
they may call back into the Annotator.
*/
package inkmap
