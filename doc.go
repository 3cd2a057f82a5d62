// Package symcode implements textbook symbol coders over a shared frequency
// model: arithmetic coding with exact rational intervals, Huffman coding,
// Shannon-Fano coding, and fixed-width baseline coding.
//
// Every coder is deterministic.  Ties are always broken by the natural order
// of Symbol, so two coders built independently from the same counts produce
// identical segments and code tables.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Arithmetic_coding>
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
//     <https://en.wikipedia.org/wiki/Shannon%E2%80%93Fano_coding>
//
package symcode
