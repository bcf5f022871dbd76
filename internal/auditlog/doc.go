// Package auditlog persists install run manifests in a SQLite database so
// past installs can be listed and inspected after the fact.
package auditlog
