/*

Package base provides base data structures and functions shared by the
recommenders.

The base data structures and functions include:

* Error Taxonomy

* CSV Line Parsing

* Random Generator

* Sparse Vectors

*/
package base
