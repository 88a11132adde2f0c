// Command rosterid manages the player identity registry: batch imports,
// player and alias inspection, the manual review queue, and quality reports.
package main
