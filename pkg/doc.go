// Package pkg provides the core libraries of partscout.
//
// # Overview
//
// Partscout finds spare parts for a vehicle. It walks the configuration
// wizard of an original-parts catalog until one vehicle modification is
// confirmed, browses the parts category tree of that modification, and
// compares offers for a part number across several online stores. The pkg
// directory is organized into these areas:
//
//  1. [core] - Domain logic (wizard resolution, catalog navigation, query
//     classification, multi-source aggregation)
//  2. [integrations] - The shared HTTP access layer and upstream clients
//  3. [cache], [history] - Storage (brand directory cache, search history)
//  4. [render] - Category tree export
//  5. [errors], [observability], [httputil], [buildinfo] - Support
//
// # Architecture
//
// The typical data flow:
//
//	brand, model, year (or a VIN)
//	         ↓
//	[core/wizard] - auto-fill known values, ask for the rest
//	         ↓
//	modifications (concrete vehicle variants)
//	         ↓
//	[core/catalog] - category tree → leaf group → grouped spare parts
//	         ↓
//	part number
//	         ↓
//	[core/aggregate] - every price source at once, failures isolated
//
// Every upstream call goes through one [integrations.Client], which paces,
// retries and maps failures onto the codes in [errors]. No package in pkg/
// reads configuration files or writes to the terminal; that is the job of
// internal/cli.
//
// [core]: github.com/matzehuels/partscout/pkg/core
// [integrations]: github.com/matzehuels/partscout/pkg/integrations
// [integrations.Client]: github.com/matzehuels/partscout/pkg/integrations#Client
// [cache]: github.com/matzehuels/partscout/pkg/cache
// [history]: github.com/matzehuels/partscout/pkg/history
// [render]: github.com/matzehuels/partscout/pkg/render
// [errors]: github.com/matzehuels/partscout/pkg/errors
// [observability]: github.com/matzehuels/partscout/pkg/observability
// [httputil]: github.com/matzehuels/partscout/pkg/httputil
// [buildinfo]: github.com/matzehuels/partscout/pkg/buildinfo
// [core/wizard]: github.com/matzehuels/partscout/pkg/core/wizard
// [core/catalog]: github.com/matzehuels/partscout/pkg/core/catalog
// [core/aggregate]: github.com/matzehuels/partscout/pkg/core/aggregate
package pkg
