package metadata

// This package defines common methods and operations for indexing the EXIF metadata of small unmanned aircraft system (sUAS) imagery in Elasticsearch. Common operations include: Gathering files, extracting metadata, deriving index records, uploading bulk actions and exporting records. It also provides a client for querying the National Ecological Observatory Network (NEON) data API.
