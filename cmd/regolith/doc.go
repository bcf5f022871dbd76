// Command regolith packages rover science bundles for delivery and works
// with the product identifiers their labels carry.
package main
