// Package domain contains the core entities of the harvester: run
// configuration, harvested places, and run lifecycle records. These types are
// free of infrastructure concerns so they can be shared across packages.
package domain
