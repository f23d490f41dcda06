// Package pathenum drives path enumeration over whole programs.
//
// Procedures are loaded from Go or C source files (see LoadFiles), their
// loop forests are detected, and each is unrolled and numbered with
// Enumerate. An Enumerator runs the pipeline over many procedures with a
// bounded number of workers, and hands the results to a Sink in input order.
// Output writes the results in one of the emit formats.
package pathenum
