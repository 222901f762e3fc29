// Package cinedex is an embeddable client for hybrid natural-language
// movie search.
//
// A query such as "sci-fi movies from the 90s with Keanu Reeves" is parsed
// into genres, a year range, people and keywords, then ranked by a BM25
// field index and a TF-IDF vector index whose scores are fused and boosted.
//
//	client, err := cinedex.New(cinedex.WithMovies(movies))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Initialize(ctx); err != nil {
//	    return err
//	}
//	resp, _ := client.Search(ctx, "space adventure from the 80s", 5)
//	for _, r := range resp.Results {
//	    fmt.Printf("%s (%.1f%%)\n", r.Movie.Title, r.Relevance)
//	}
//
// Without WithMovies or WithLoader the client reads the MSRD movie dataset
// from WithDataset's path, downloading it when missing.
package cinedex
