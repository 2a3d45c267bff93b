// Package repository offers a generic, ordered in memory collection per entity type.
//
// A MemoryRepository keeps its entities in insertion order. Entities are matched by their
// identity, so saving an entity with a known ID replaces the stored value at its position.
// Reads return copies, all mutation goes through the repository methods.
//
// A Repository offers a whole set of methods already out of the box. That might not be enough, though.
// It is possible to overwrite an existing method to change the behaviour as well as extend the Repository
// with new methods. There are examples for both.
package repository
