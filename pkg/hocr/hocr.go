// Package hocr reads and writes hOCR, the HTML based format many OCR
// engines emit.
//
// hOCR files are evaluation candidates: ParseHOCR builds the object model
// (Document → Pages → Areas → Paragraphs → Lines → Words) and ReadLines
// returns the line texts, optionally restricted to a frame. FromTree
// exports a groundtruth document tree as hOCR, and GenerateHOCRDocument
// renders any HOCR value as HTML.
package hocr
