// Package mock provides a recording Notifier for tests.
package mock
