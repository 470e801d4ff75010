// Package similarity compares page embeddings.
//
// Every pair of pages is compared, so the cost grows with the square of
// the page count. The crawler's page ceiling keeps that bounded.
package similarity
