// Package dom is a document-model API over the engine.
//
// It mirrors the small subset of the browser DOM that imperative UI code
// relies on: creating elements and text nodes, moving them around the
// tree, setting ids, styles, props and event listeners. Every node is a
// thin handle on an engine surface; parent and child relations are read
// from the engine, so a document and a vdom.Root rendering into the same
// engine see the same tree.
//
// Mutations must happen inside Document.Update, which opens one engine
// frame and flushes it when the function returns:
//
//	doc.Update(ctx, func() error {
//	    btn, err := doc.CreateElement("button")
//	    if err != nil {
//	        return err
//	    }
//	    btn.AddEventListener("click", native.NewListener(onClick))
//	    return doc.Body().AppendChild(btn)
//	})
//
// Elements created through the document get the default style of their
// tag from the document's style.Sheet.
package dom
