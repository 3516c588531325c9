package store

import "fmt"

// SchemaSQL returns the schema initialization SQL for the document table.
// The HNSW index dimension must match the embedding model in use; changing
// models on an existing database requires a re-index.
func SchemaSQL(dimension int) string {
	return fmt.Sprintf(`
    DEFINE TABLE IF NOT EXISTS document SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS text ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS embedding ON document TYPE array<float>;

    DEFINE FIELD IF NOT EXISTS meeting_id ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS meeting_date ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS meeting_title ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS summary ON document TYPE string;

    DEFINE FIELD IF NOT EXISTS start_time ON document TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS end_time ON document TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS duration ON document TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS start_time_formatted ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS end_time_formatted ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS meeting_duration ON document TYPE string DEFAULT '';

    DEFINE FIELD IF NOT EXISTS speaker ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS speakers ON document TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS speaker_count ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS speaker_mapping ON document TYPE string DEFAULT '{}';

    DEFINE FIELD IF NOT EXISTS chunk_type ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS chunk_index ON document TYPE int;
    DEFINE FIELD IF NOT EXISTS total_chunks ON document TYPE int;
    DEFINE FIELD IF NOT EXISTS word_count ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS char_count ON document TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS segment_count ON document TYPE int DEFAULT 0;

    DEFINE FIELD IF NOT EXISTS source ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS source_file ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS transcription_model ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS language ON document TYPE string DEFAULT '';
    DEFINE FIELD IF NOT EXISTS date_transcribed ON document TYPE string DEFAULT '';

    DEFINE FIELD IF NOT EXISTS created ON document TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS document_meeting ON document FIELDS meeting_id;
    DEFINE INDEX IF NOT EXISTS document_chunk ON document FIELDS meeting_id, chunk_index;
    DEFINE INDEX IF NOT EXISTS document_embedding ON document FIELDS embedding HNSW DIMENSION %d DIST COSINE TYPE F32;
`, dimension)
}
