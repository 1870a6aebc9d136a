// Package service provides the domain services of the auth engine.
//
// Services contain the business logic and orchestrate the store, the
// validation cache and the command pipeline. This package contains:
//
//   - ValidationService: the concurrent read path that turns a raw
//     credential plus required scopes into an allow or deny verdict
//   - ManagementService: the write path facade that submits create,
//     revoke and extend commands and serves list/info reads
//   - HealthService: component reachability checks
//
// Services are stateless and safe for concurrent use.
package service
