/*
Package domain contains the core types shared across the Stagehand
integration: pipeline contexts, host version information, registered
commands, scene events and the error taxonomy.

Types here have no dependencies on any adapter or on the host itself.
*/
package domain
