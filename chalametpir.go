/*
Package chalametpir is the root of the ChalametPIR module. ChalametPIR is a
single-server Private Information Retrieval (PIR) scheme that lets a client
fetch the value associated with a key from a server-hosted key-value database
without revealing which key was requested.

The construction has two layers:

  - a lattice-based index PIR over a flat database, built from a
    Learning-With-Errors (LWE) hint (see package frodopir);
  - a keyword-to-index adapter built on a Binary Fuse Filter that encodes a
    key-value map as a system of linear equations over a small prime field
    (see packages fuse and keyword).

The shared linear-algebra kernel — field arithmetic, seeded matrix expansion,
row encoding and matrix-vector products — lives in package ring.

This package itself holds no code: it exists so the module has a documented
entry point at its own root.
*/
package chalametpir
