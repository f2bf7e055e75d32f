// Package main provides the entry point for the kajilog application.
// It initializes and runs a web server using the Fiber framework that lets
// household members track recurring activities inside shared groups through
// a REST API. Users sign in with Google, belong to one or more groups, and
// always operate in the context of a single selected group. The application
// uses gorm over SQLite for data persistence.
package main
