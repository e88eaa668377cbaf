// Package config loads the YAML configuration of mockd-jsonlog.
//
// A configuration file describes the host server, the operational logger,
// where structured exchange records go, and the stubs to serve:
//
//	server:
//	  port: 8080
//	  readTimeout: 10s
//	logging:
//	  level: info
//	  format: json
//	jsonlog:
//	  output: stdout
//	  errorOutput: stderr
//	  tee:
//	    - ./exchanges.ndjson
//	stubs:
//	  - id: get-user
//	    request:
//	      method: GET
//	      path: /api/users/{id}
//	    response:
//	      status: 200
//	      headers:
//	        Content-Type: application/json
//	      body: '{"id": 1, "name": "Ada"}'
//	stubFiles:
//	  - stubs/**/*.yaml
//
// ${VAR} and ${VAR:-default} references are expanded from the environment
// before parsing. Stub files may hold a single stub or a list of stubs.
package config
