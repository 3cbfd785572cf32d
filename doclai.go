// Package doclai localizes structured documents with AI translation providers.
//
// A document is a JSON-like tree (see Value). Doclai finds every
// translatable string in it, skips identifiers and other protected
// fields, protects inline markup, sends the strings to a provider in
// size-bounded chunks and writes the translations back into a copy of
// the tree. Failed chunks fall back to the source text; placeholder, URL
// and email drift is reported as soft issues instead of failing the run.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/doclai"
//	    "github.com/ZaguanLabs/doclai/cache"
//	    "github.com/ZaguanLabs/doclai/processor"
//	    "github.com/ZaguanLabs/doclai/provider"
//	)
//
//	func main() {
//	    p := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    e := doclai.NewEngine("es_ES", p,
//	        doclai.WithCache(cache.NewInMemoryCache(3600)),
//	        doclai.WithRepairer(processor.NewHTMLRepairer()),
//	    )
//
//	    doc, _ := doclai.ParseJSON([]byte(`{"title":"Hello <b>World</b>","id":"home"}`))
//	    result, err := e.Localize(context.Background(), doc)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    out, _ := json.Marshal(result.Data)
//	    fmt.Println(string(out)) // {"title":"Hola <b>Mundo</b>","id":"home"}
//	}
package doclai
