/*
Package builder is the facade over the template compiler. It owns the event
registry and the two pieces of configuration that persist between calls (the
container that receives compiled roots and the attribute separator), and
drives one compilation:

 1. Line Splitting: the template is split into non-blank lines, each tagged
    with its nesting depth, and partitioned into blocks at every top-level
    line (see package indent).

 2. Parsing: every line of a block is parsed into a descriptor before any
    node is created, so a malformed line aborts its block without leaving a
    half-built subtree behind (see package descriptor).

 3. Materialization: each descriptor becomes an element of the configured
    dom.Document with its classes, id, text, attributes and the listeners of
    every event name the registry can resolve.

 4. Reconstruction: the block's elements are nested deepest-first under the
    block root (see package tree), and the root is appended to the container.

Blocks are processed in template order. When a block fails, the roots of the
blocks before it stay attached to the container.
*/
package builder
