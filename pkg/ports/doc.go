/*
Package ports defines the driven ports (interfaces) for the policytree engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends.

# Key Interfaces

  - TreeStore: Responsible for persisting and loading built policy trees by ID.
*/
package ports
