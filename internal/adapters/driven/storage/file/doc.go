// Package file reads preprocessing output from the data directory and stores
// generated summaries next to it.
//
// Layout under the data root, one directory per investment:
//
//	<id>/metadata.json
//	<id>/<stem>_chunks.json               document chunks
//	<id>/<stem>_text_embeddings.npy       optional, one row per text chunk
//	<id>/<stem>_visual_embeddings.npy     optional, one row per visual chunk
//	<id>/<sitekey>_chunks.json            website chunks
//	<id>/<sitekey>_embeddings.npy         optional
//	<id>/<key>_summary.txt                cached summaries
//
// Stems and site keys come from domain.DocumentStem and domain.WebsiteKey.
package file
