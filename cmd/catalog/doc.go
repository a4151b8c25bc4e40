// Command catalog runs and administers the product catalog service.
//
//	catalog serve --migrate   # HTTP (and gRPC health when GRPC_PORT is set)
//	catalog migrate           # run pending migrations
//	catalog migrate:rollback
//	catalog migrate:status
//	catalog seed              # demo catalog into an empty store
//	catalog route:list
//
// Configuration comes from config/app.json, .env and the environment; see
// package config.
package main
